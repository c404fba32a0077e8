package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

// Telegram delivers notifications via the Telegram Bot API.
// Implements ports.Notifier.
type Telegram struct {
	token   string
	chatID  string
	client  *http.Client
	baseURL string
}

// NewTelegram creates a Telegram notifier for the given bot token and chat
// ID. It uses a default HTTP client with a 10-second timeout.
func NewTelegram(token, chatID string) *Telegram {
	return &Telegram{
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.telegram.org",
	}
}

// CycleSummary posts the cycle outcome. Quiet cycles (no opportunities)
// stay off the chat; a 2-second scan interval would flood it otherwise.
func (t *Telegram) CycleSummary(ctx context.Context, s domain.CycleSummary) error {
	if len(s.Opportunities) == 0 {
		return nil
	}

	var body bytes.Buffer
	fmt.Fprintf(&body, "pairs: %d | opps: %d | confirmed: %d\n",
		s.PairsScanned, len(s.Opportunities), s.ConfirmedCount())
	for _, sub := range s.Submissions {
		opp := sub.Opportunity
		fmt.Fprintf(&body, "%s %s net %s SOL → %s\n",
			opp.Pair.Symbol, opp.Route(), opp.NetProfitSOL().StringFixed(9), sub.Status)
	}

	return t.send(ctx, "arb cycle", body.String())
}

// Alert posts an operational alert.
func (t *Telegram) Alert(ctx context.Context, title, message string) error {
	return t.send(ctx, title, message)
}

// send posts a message to the configured chat using the sendMessage API.
// The title is rendered in bold.
func (t *Telegram) send(ctx context.Context, title, message string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)

	text := fmt.Sprintf("*%s*\n%s", title, message)

	payload := map[string]string{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
