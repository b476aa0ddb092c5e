package export

import (
	"fmt"
	"io"

	"github.com/admitchat/admitchat/internal/domain/entity"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
)

// MarkdownExporter renders the transcript as a readable Markdown document.
type MarkdownExporter struct{}

// Export implements Exporter.
func (e *MarkdownExporter) Export(visitor *entity.Visitor, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Transcript for %s\n\n", visitor.Email())

	if visitor.Name() != "" {
		_, _ = fmt.Fprintf(w, "**Name:** %s  \n", visitor.Name())
	}
	if visitor.Phone() != "" {
		_, _ = fmt.Fprintf(w, "**Phone:** %s  \n", visitor.Phone())
	}

	conversation := visitor.Conversation()
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n---\n\n", conversation.Len())

	for i, msg := range conversation.Messages {
		actor := "Assistant"
		if msg.IsFromUser() {
			actor = "Visitor"
		}
		_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", actor, msg.Message)

		for j, doc := range msg.SourceDocs {
			_, _ = fmt.Fprintf(w, "> Source %d: %s\n\n", j+1, sourceLabel(doc))
		}

		if i < conversation.Len()-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// ContentType implements Exporter.
func (e *MarkdownExporter) ContentType() string {
	return "text/markdown; charset=utf-8"
}

func sourceLabel(doc valueobject.SourceDocument) string {
	if src, ok := doc.Metadata["source"]; ok && src != "" {
		return src
	}
	return doc.PageContent
}
