package alert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notifier posts operational alerts to a webhook. A Notifier with an empty
// URL is valid and silently drops messages, so callers never need to guard.
type Notifier struct {
	webhookURL string
	httpClient *http.Client
}

type payload struct {
	Level     string            `json:"level"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Notify sends a single alert. fields are flattened into strings so the
// receiving side does not need to know our types.
func (n *Notifier) Notify(level, message string, fields map[string]interface{}) error {
	if n.webhookURL == "" {
		return nil
	}

	p := payload{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
	}
	if len(fields) > 0 {
		p.Fields = make(map[string]string, len(fields))
		for k, v := range fields {
			p.Fields[k] = fmt.Sprintf("%v", v)
		}
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling alert payload: %w", err)
	}

	req, err := http.NewRequest("POST", n.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode)
	}

	return nil
}
