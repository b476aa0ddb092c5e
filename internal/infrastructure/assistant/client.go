// Package assistant is the HTTP client for the external question-answering
// backend. The backend owns the model and the retrieval store; this side
// only speaks its JSON contract: POST {question, history} and read back
// {text, sourceDocuments} or {error}.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/admitchat/admitchat/internal/domain/session"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
)

// Client calls the Q&A endpoint over HTTP JSON.
type Client struct {
	baseURL    func() string
	httpClient *http.Client
	logger     *zap.Logger
}

type askRequest struct {
	Question string               `json:"question"`
	History  []valueobject.QAPair `json:"history"`
}

type askResponse struct {
	Text            string                       `json:"text"`
	SourceDocuments []valueobject.SourceDocument `json:"sourceDocuments,omitempty"`
	Error           string                       `json:"error,omitempty"`
}

// NewClient creates an assistant client. baseURL is a getter rather than a
// string so the config watcher can repoint the upstream without a restart.
func NewClient(baseURL func() string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Ask implements session.Assistant.
func (c *Client) Ask(ctx context.Context, question string, history []valueobject.QAPair) (session.Answer, error) {
	if history == nil {
		history = []valueobject.QAPair{}
	}
	body, err := json.Marshal(askRequest{
		Question: question,
		History:  history,
	})
	if err != nil {
		return session.Answer{}, fmt.Errorf("marshal ask request: %w", err)
	}

	url := c.baseURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return session.Answer{}, fmt.Errorf("build ask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return session.Answer{}, fmt.Errorf("call assistant: %w", err)
	}
	defer resp.Body.Close()

	var decoded askResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return session.Answer{}, fmt.Errorf("decode assistant response: %w", err)
	}

	// 上游把业务错误放在 200 响应体里，也可能直接回非 2xx
	if decoded.Error != "" {
		return session.Answer{}, fmt.Errorf("assistant error: %s", decoded.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return session.Answer{}, fmt.Errorf("assistant returned status %d", resp.StatusCode)
	}

	c.logger.Debug("Assistant answered",
		zap.String("url", url),
		zap.Int("history_len", len(history)),
		zap.Duration("latency", time.Since(start)),
	)

	return session.Answer{
		Text:       decoded.Text,
		SourceDocs: decoded.SourceDocuments,
	}, nil
}
