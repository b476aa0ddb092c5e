package export

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/admitchat/admitchat/internal/domain/entity"
)

// HTMLExporter renders the transcript as a standalone HTML page. Answers
// come back from the assistant as markdown (the widget renders them the
// same way), so each message body goes through goldmark.
type HTMLExporter struct {
	md goldmark.Markdown
}

// Export implements Exporter.
func (e *HTMLExporter) Export(visitor *entity.Visitor, w io.Writer) error {
	if e.md == nil {
		e.md = goldmark.New(
			goldmark.WithRendererOptions(
				gmhtml.WithHardWraps(),
			),
		)
	}

	_, _ = fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Transcript for %s</title></head>\n<body>\n", html.EscapeString(visitor.Email()))
	_, _ = fmt.Fprintf(w, "<h1>Transcript for %s</h1>\n", html.EscapeString(visitor.Email()))
	if visitor.Name() != "" {
		_, _ = fmt.Fprintf(w, "<p><b>Name:</b> %s</p>\n", html.EscapeString(visitor.Name()))
	}
	if visitor.Phone() != "" {
		_, _ = fmt.Fprintf(w, "<p><b>Phone:</b> %s</p>\n", html.EscapeString(visitor.Phone()))
	}

	for _, msg := range visitor.Conversation().Messages {
		class := "api-message"
		if msg.IsFromUser() {
			class = "user-message"
		}

		var body bytes.Buffer
		if err := e.md.Convert([]byte(msg.Message), &body); err != nil {
			return fmt.Errorf("render message: %w", err)
		}
		_, _ = fmt.Fprintf(w, "<div class=\"%s\">\n%s</div>\n", class, body.String())
	}

	_, _ = io.WriteString(w, "</body>\n</html>\n")
	return nil
}

// ContentType implements Exporter.
func (e *HTMLExporter) ContentType() string {
	return "text/html; charset=utf-8"
}
