// Package notify fans a lead submission out to the configured messaging
// channels. Every channel is best-effort: failures become outcomes, never
// errors returned to the caller.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joeyedi1/eclandingpage/internal/config"
	"github.com/joeyedi1/eclandingpage/internal/domain"
)

// Channel names, in default dispatch order.
const (
	ChannelTelegram  = "telegram"
	ChannelTwilio    = "twilio"
	ChannelCallMeBot = "callmebot"
)

// maxResponseBody caps how much of a provider response is read.
const maxResponseBody = 64 << 10

// timestampLayout matches the en-SG locale rendering used on the site.
const timestampLayout = "02/01/2006, 3:04:05 pm"

// Receipt is what a provider acknowledges on success.
type Receipt struct {
	ProviderID string
}

// Channel is one outbound messaging integration.
// Mocking this interface in tests gives full control over provider behaviour
// without making real HTTP calls.
type Channel interface {
	Name() string
	// Active reports whether every required credential is present.
	Active() bool
	// Format renders the lead for this channel. at is shared by every
	// channel in a dispatch run.
	Format(lead domain.LeadSubmission, at time.Time) string
	Send(ctx context.Context, text string) (Receipt, error)
}

// DeliveryError is a normalised channel failure. Its message is safe to log
// and store: it never contains request URLs, which carry credentials.
type DeliveryError struct {
	Channel    string
	StatusCode int
	Message    string
	Err        error
}

func (e *DeliveryError) Error() string {
	var b strings.Builder
	b.WriteString(e.Channel)
	if e.StatusCode > 0 {
		fmt.Fprintf(&b, ": HTTP %d", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, " (%v)", e.Err)
	}
	return b.String()
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// BuildChannels constructs every supported channel from configuration in
// dispatch order. Channels lacking credentials are included and report
// themselves inactive.
func BuildChannels(cfg *config.Config, project string, client *http.Client) []Channel {
	return []Channel{
		NewTelegramChannel(cfg.Telegram, project, client),
		NewTwilioChannel(cfg.Twilio, project, client),
		NewCallMeBotChannel(cfg.CallMeBot, project, client),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// do executes req and returns the status and a bounded body. Transport
// errors are stripped of the request URL.
func do(client *http.Client, channel string, req *http.Request) (int, []byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, &DeliveryError{Channel: channel, Message: "request failed", Err: stripURL(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return resp.StatusCode, nil, &DeliveryError{
			Channel: channel, StatusCode: resp.StatusCode, Message: "read response", Err: stripURL(err),
		}
	}
	return resp.StatusCode, body, nil
}

func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

func isSuccess(status int) bool { return status >= 200 && status < 300 }

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
