package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/admitchat/admitchat/internal/domain/entity"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
	"github.com/admitchat/admitchat/internal/export"
)

func sampleVisitor(t *testing.T) *entity.Visitor {
	t.Helper()
	conv := valueobject.NewConversation("Hi!").
		WithAnswer("fees?", "See the **fees** page.", nil)
	v, err := entity.NewVisitor(valueobject.NewContact("Ravi", "ravi@example.com", "123"), conv)
	if err != nil {
		t.Fatalf("NewVisitor failed: %v", err)
	}
	return v
}

func TestNewExporter_Formats(t *testing.T) {
	for _, format := range []string{"", "json", "md", "markdown", "yaml", "html"} {
		if _, err := export.NewExporter(format); err != nil {
			t.Errorf("Format %q: unexpected error %v", format, err)
		}
	}
}

func TestNewExporter_Unsupported(t *testing.T) {
	if _, err := export.NewExporter("pdf"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestJSONExporter(t *testing.T) {
	e, _ := export.NewExporter("json")
	if e.ContentType() != "application/json" {
		t.Errorf("Unexpected content type: %s", e.ContentType())
	}

	var buf bytes.Buffer
	if err := e.Export(sampleVisitor(t), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var decoded struct {
		Email    string            `json:"email"`
		Messages []json.RawMessage `json:"messages"`
		History  [][]string        `json:"history"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.Email != "ravi@example.com" {
		t.Errorf("Unexpected email: %s", decoded.Email)
	}
	if len(decoded.Messages) != 3 {
		t.Errorf("Expected 3 messages, got %d", len(decoded.Messages))
	}
	if len(decoded.History) != 1 || decoded.History[0][0] != "fees?" {
		t.Errorf("Unexpected history: %v", decoded.History)
	}
}

func TestMarkdownExporter(t *testing.T) {
	e, _ := export.NewExporter("markdown")

	var buf bytes.Buffer
	if err := e.Export(sampleVisitor(t), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ravi@example.com") {
		t.Error("Markdown output missing visitor email")
	}
	if !strings.Contains(out, "fees?") {
		t.Error("Markdown output missing question text")
	}
}

func TestYAMLExporter(t *testing.T) {
	e, _ := export.NewExporter("yaml")

	var buf bytes.Buffer
	if err := e.Export(sampleVisitor(t), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.Contains(buf.String(), "email: ravi@example.com") {
		t.Errorf("YAML output missing email field:\n%s", buf.String())
	}
}

func TestHTMLExporter(t *testing.T) {
	e, _ := export.NewExporter("html")
	if !strings.HasPrefix(e.ContentType(), "text/html") {
		t.Errorf("Unexpected content type: %s", e.ContentType())
	}

	var buf bytes.Buffer
	if err := e.Export(sampleVisitor(t), &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	out := buf.String()
	// markdown in the answer body renders to actual markup
	if !strings.Contains(out, "<strong>fees</strong>") {
		t.Errorf("Expected markdown-rendered answer in HTML:\n%s", out)
	}
	if !strings.Contains(out, "user-message") || !strings.Contains(out, "api-message") {
		t.Error("Expected message role classes in HTML output")
	}
}
