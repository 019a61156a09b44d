package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/joeyedi1/eclandingpage/internal/config"
	"github.com/joeyedi1/eclandingpage/internal/domain"
)

// TelegramChannel posts HTML messages through the Telegram Bot API.
type TelegramChannel struct {
	cfg        config.TelegramConfig
	project    string
	httpClient *http.Client
}

func NewTelegramChannel(cfg config.TelegramConfig, project string, client *http.Client) *TelegramChannel {
	return &TelegramChannel{cfg: cfg, project: project, httpClient: client}
}

// TelegramRequest is the sendMessage body.
type TelegramRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

func (c *TelegramChannel) Name() string { return ChannelTelegram }

func (c *TelegramChannel) Active() bool {
	return c.cfg.BotToken != "" && c.cfg.ChatID != ""
}

func (c *TelegramChannel) Format(lead domain.LeadSubmission, at time.Time) string {
	e := html.EscapeString
	lines := []string{
		fmt.Sprintf("🚀 <b>NEW LEAD: %s</b>", e(strings.ToUpper(c.project))),
		"──────────────────",
		"👤 <b>Name:</b> " + e(lead.Name),
		"📱 <b>Mobile:</b> " + e(lead.Mobile),
		"📧 <b>Email:</b> " + e(lead.Email),
		"🏢 <b>Unit:</b> " + e(orDash(lead.PreferredUnit)),
		"📋 <b>Request:</b> " + e(lead.Request),
		"──────────────────",
		"✅ <b>Contact:</b> " + yesNo(lead.ConsentContact),
		"📣 <b>Marketing:</b> " + yesNo(lead.ConsentMarketing),
		"🕐 <b>Time:</b> " + at.Format(timestampLayout),
	}
	return strings.Join(lines, "\n")
}

// Send posts the message and treats {"ok": false} as a failure even when the
// status is 200.
func (c *TelegramChannel) Send(ctx context.Context, text string) (Receipt, error) {
	body, err := json.Marshal(TelegramRequest{ChatID: c.cfg.ChatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return Receipt{}, &DeliveryError{Channel: ChannelTelegram, Message: "marshal request", Err: err}
	}

	endpoint := strings.TrimRight(c.cfg.APIBase, "/") + "/bot" + c.cfg.BotToken + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, &DeliveryError{Channel: ChannelTelegram, Message: "create request", Err: stripURL(err)}
	}
	req.Header.Set("Content-Type", "application/json")

	status, respBody, err := do(c.httpClient, ChannelTelegram, req)
	if err != nil {
		return Receipt{}, err
	}

	var tr telegramResponse
	decodeErr := json.Unmarshal(respBody, &tr)

	if !isSuccess(status) {
		msg := snippet(respBody)
		if decodeErr == nil && tr.Description != "" {
			msg = tr.Description
		}
		return Receipt{}, &DeliveryError{Channel: ChannelTelegram, StatusCode: status, Message: msg}
	}
	if decodeErr != nil {
		return Receipt{}, &DeliveryError{Channel: ChannelTelegram, StatusCode: status, Message: "decode response", Err: decodeErr}
	}
	if !tr.OK {
		return Receipt{}, &DeliveryError{Channel: ChannelTelegram, StatusCode: status, Message: "rejected: " + tr.Description}
	}

	return Receipt{ProviderID: strconv.FormatInt(tr.Result.MessageID, 10)}, nil
}

// compile-time check that TelegramChannel implements Channel
var _ Channel = (*TelegramChannel)(nil)
