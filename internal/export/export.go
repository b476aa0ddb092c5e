// Package export renders a visitor's stored conversation transcript in
// the formats the admissions staff pull reports in.
package export

import (
	"fmt"
	"io"

	"github.com/admitchat/admitchat/internal/domain/entity"
)

// Exporter renders one visitor transcript to a writer.
type Exporter interface {
	Export(visitor *entity.Visitor, w io.Writer) error
	ContentType() string
}

// NewExporter creates an exporter for the given format.
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json", "":
		return &JSONExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "html":
		return &HTMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, markdown, yaml, html)", format)
	}
}
