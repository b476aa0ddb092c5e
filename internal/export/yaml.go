package export

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/admitchat/admitchat/internal/domain/entity"
)

// YAMLExporter renders the transcript as YAML.
type YAMLExporter struct{}

// Export implements Exporter.
func (e *YAMLExporter) Export(visitor *entity.Visitor, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(newTranscript(visitor))
}

// ContentType implements Exporter.
func (e *YAMLExporter) ContentType() string {
	return "application/yaml"
}
