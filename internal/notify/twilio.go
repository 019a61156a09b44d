package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joeyedi1/eclandingpage/internal/config"
	"github.com/joeyedi1/eclandingpage/internal/domain"
)

// TwilioChannel sends WhatsApp messages through Twilio's Messages resource
// using a form-encoded body and HTTP Basic credentials.
type TwilioChannel struct {
	cfg        config.TwilioConfig
	project    string
	httpClient *http.Client
}

func NewTwilioChannel(cfg config.TwilioConfig, project string, client *http.Client) *TwilioChannel {
	return &TwilioChannel{cfg: cfg, project: project, httpClient: client}
}

type twilioResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *TwilioChannel) Name() string { return ChannelTwilio }

func (c *TwilioChannel) Active() bool {
	return c.cfg.AccountSID != "" && c.cfg.AuthToken != "" &&
		c.cfg.WhatsAppFrom != "" && c.cfg.WhatsAppTo != ""
}

func (c *TwilioChannel) Format(lead domain.LeadSubmission, at time.Time) string {
	return strings.Join([]string{
		"🏠 *New Lead from " + c.project + "*",
		"",
		"👤 *Name:* " + lead.Name,
		"📱 *Mobile:* " + lead.Mobile,
		"📧 *Email:* " + lead.Email,
		"🏢 *Preferred Unit:* " + orDash(lead.PreferredUnit),
		"📋 *Request:* " + lead.Request,
		"✅ *Contact Consent:* " + yesNo(lead.ConsentContact),
		"📣 *Marketing Consent:* " + yesNo(lead.ConsentMarketing),
		"",
		"🕐 *Submitted:* " + at.Format(timestampLayout),
	}, "\n")
}

func (c *TwilioChannel) Send(ctx context.Context, text string) (Receipt, error) {
	form := url.Values{
		"From": {c.cfg.WhatsAppFrom},
		"To":   {c.cfg.WhatsAppTo},
		"Body": {text},
	}
	endpoint := strings.TrimRight(c.cfg.APIBase, "/") +
		"/2010-04-01/Accounts/" + url.PathEscape(c.cfg.AccountSID) + "/Messages.json"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Receipt{}, &DeliveryError{Channel: ChannelTwilio, Message: "create request", Err: stripURL(err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	status, respBody, err := do(c.httpClient, ChannelTwilio, req)
	if err != nil {
		return Receipt{}, err
	}

	var tr twilioResponse
	decodeErr := json.Unmarshal(respBody, &tr)

	if !isSuccess(status) {
		msg := snippet(respBody)
		if decodeErr == nil && tr.Message != "" {
			msg = tr.Message
		}
		return Receipt{}, &DeliveryError{Channel: ChannelTwilio, StatusCode: status, Message: msg}
	}
	return Receipt{ProviderID: tr.SID}, nil
}

var _ Channel = (*TwilioChannel)(nil)
