package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/admitchat/admitchat/internal/domain/entity"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
)

// transcript is the flat shape shared by the JSON and YAML exporters.
type transcript struct {
	Email     string                `json:"email" yaml:"email"`
	Name      string                `json:"name,omitempty" yaml:"name,omitempty"`
	Phone     string                `json:"phone,omitempty" yaml:"phone,omitempty"`
	Messages  []valueobject.Message `json:"messages" yaml:"messages"`
	History   []valueobject.QAPair  `json:"history" yaml:"history"`
	UpdatedAt time.Time             `json:"updatedAt" yaml:"updatedAt"`
}

func newTranscript(visitor *entity.Visitor) transcript {
	conversation := visitor.Conversation()
	return transcript{
		Email:     visitor.Email(),
		Name:      visitor.Name(),
		Phone:     visitor.Phone(),
		Messages:  conversation.Messages,
		History:   conversation.History,
		UpdatedAt: visitor.UpdatedAt(),
	}
}

// JSONExporter renders the transcript as indented JSON.
type JSONExporter struct{}

// Export implements Exporter.
func (e *JSONExporter) Export(visitor *entity.Visitor, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newTranscript(visitor))
}

// ContentType implements Exporter.
func (e *JSONExporter) ContentType() string {
	return "application/json"
}
