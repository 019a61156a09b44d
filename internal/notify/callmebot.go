package notify

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joeyedi1/eclandingpage/internal/config"
	"github.com/joeyedi1/eclandingpage/internal/domain"
)

// CallMeBotChannel relays WhatsApp messages through CallMeBot's GET API.
// CallMeBot answers 200 with a plain-text body even when it refuses a
// message, so any "error" in the body is a failure.
type CallMeBotChannel struct {
	cfg        config.CallMeBotConfig
	project    string
	httpClient *http.Client
}

func NewCallMeBotChannel(cfg config.CallMeBotConfig, project string, client *http.Client) *CallMeBotChannel {
	return &CallMeBotChannel{cfg: cfg, project: project, httpClient: client}
}

func (c *CallMeBotChannel) Name() string { return ChannelCallMeBot }

func (c *CallMeBotChannel) Active() bool {
	return c.cfg.Phone != "" && c.cfg.APIKey != ""
}

func (c *CallMeBotChannel) Format(lead domain.LeadSubmission, at time.Time) string {
	return strings.Join([]string{
		"New lead: " + c.project,
		"Name: " + lead.Name,
		"Mobile: " + lead.Mobile,
		"Email: " + lead.Email,
		"Unit: " + orDash(lead.PreferredUnit),
		"Request: " + lead.Request,
		"Contact: " + yesNo(lead.ConsentContact),
		"Marketing: " + yesNo(lead.ConsentMarketing),
		"Time: " + at.Format(timestampLayout),
	}, "\n")
}

func (c *CallMeBotChannel) Send(ctx context.Context, text string) (Receipt, error) {
	query := url.Values{
		"phone":  {c.cfg.Phone},
		"text":   {text},
		"apikey": {c.cfg.APIKey},
	}
	endpoint := strings.TrimRight(c.cfg.APIBase, "/") + "/whatsapp.php?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Receipt{}, &DeliveryError{Channel: ChannelCallMeBot, Message: "create request", Err: stripURL(err)}
	}

	status, respBody, err := do(c.httpClient, ChannelCallMeBot, req)
	if err != nil {
		return Receipt{}, err
	}
	if !isSuccess(status) {
		return Receipt{}, &DeliveryError{Channel: ChannelCallMeBot, StatusCode: status, Message: snippet(respBody)}
	}
	if strings.Contains(strings.ToLower(string(respBody)), "error") {
		return Receipt{}, &DeliveryError{Channel: ChannelCallMeBot, StatusCode: status, Message: snippet(respBody)}
	}
	return Receipt{}, nil
}

var _ Channel = (*CallMeBotChannel)(nil)
