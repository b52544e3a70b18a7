// Package telegram delivers rendered reports to a Telegram chat.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the Telegram Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// MaxMessageLen is the Bot API limit on the text of one message.
const MaxMessageLen = 4096

// ErrMissingCredentials is returned by Send when the token or chat id is empty.
var ErrMissingCredentials = errors.New("telegram credentials missing")

// Sender posts messages to one chat.
type Sender struct {
	Token   string
	ChatID  string
	BaseURL string       // DefaultBaseURL when empty
	Client  *http.Client // a client with a 10s timeout when nil
}

// NewSender returns a Sender for the TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID values.
func NewSender(token, chatID string) *Sender {
	return &Sender{Token: token, ChatID: chatID}
}

// SendReport sends a plain text report as preformatted blocks, split on line
// boundaries so that no message exceeds MaxMessageLen.
func (s *Sender) SendReport(ctx context.Context, title, report string) error {
	const fence = "```"
	budget := MaxMessageLen - len(title) - 2*len(fence) - 4
	for i, chunk := range splitLines(report, budget) {
		text := fence + "\n" + chunk + fence
		if i == 0 && title != "" {
			text = "*" + title + "*\n" + text
		}
		if err := s.Send(ctx, text); err != nil {
			return fmt.Errorf("sending report part %d: %w", i+1, err)
		}
	}
	return nil
}

// Send posts one Markdown message.
func (s *Sender) Send(ctx context.Context, text string) error {
	if s.Token == "" || s.ChatID == "" {
		return ErrMissingCredentials
	}
	base := s.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	body, err := json.Marshal(map[string]string{
		"chat_id":    s.ChatID,
		"text":       text,
		"parse_mode": "Markdown",
	})
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(base, "/"), s.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	log.Debug().Int("bytes", len(text)).Msg("telegram sendMessage")
	resp, err := client.Do(req)
	if err != nil {
		// The URL holds the bot token; keep it out of the error.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Description string `json:"description"`
		}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(b, &apiErr)
		return fmt.Errorf("telegram API error: status %s: %s", resp.Status, apiErr.Description)
	}
	return nil
}

// splitLines cuts s into pieces of at most max bytes, breaking between lines.
// A single line longer than max is cut at the last rune boundary before it overflows.
func splitLines(s string, max int) []string {
	if max <= 0 {
		max = MaxMessageLen
	}
	var (
		chunks []string
		cur    strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
	}
	for _, line := range strings.SplitAfter(s, "\n") {
		for len(line) > max {
			flush()
			cut := max
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = max
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > max {
			flush()
		}
		cur.WriteString(line)
	}
	flush()
	return chunks
}
