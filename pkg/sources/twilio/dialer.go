package twilio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

type callAPI interface {
	CreateCall(params *api.CreateCallParams) (*api.ApiV2010Call, error)
	UpdateCall(sid string, params *api.UpdateCallParams) (*api.ApiV2010Call, error)
}

// Dialer places and ends calls via the Twilio REST API, so the controller can
// ring the operator's phone and hang up when the program exits.
type Dialer struct {
	cfg    Config
	client callAPI
}

func NewDialer(cfg Config) *Dialer {
	return &Dialer{cfg: cfg.withDefaults()}
}

// Dial places an outbound call whose voice webhook connects the media stream.
func (d *Dialer) Dial(ctx context.Context, to, from, url string) (string, error) {
	_ = ctx
	if to == "" || from == "" {
		return "", errors.New("to/from required")
	}
	if d.cfg.AccountSID == "" || d.cfg.AuthToken == "" {
		return "", errors.New("missing twilio credentials")
	}
	if url == "" {
		url = d.voiceWebhookURL()
	}
	params := &api.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetUrl(url)
	resp, err := d.api().CreateCall(params)
	if err != nil {
		return "", err
	}
	if resp == nil || resp.Sid == nil {
		return "", fmt.Errorf("missing call sid")
	}
	return *resp.Sid, nil
}

// Hangup completes an active call.
func (d *Dialer) Hangup(sid string) error {
	if strings.TrimSpace(sid) == "" {
		return errors.New("call sid required")
	}
	params := &api.UpdateCallParams{}
	params.SetStatus("completed")
	_, err := d.api().UpdateCall(sid, params)
	return err
}

func (d *Dialer) api() callAPI {
	if d.client != nil {
		return d.client
	}
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: d.cfg.AccountSID,
		Password: d.cfg.AuthToken,
	})
	return rest.Api
}

func (d *Dialer) voiceWebhookURL() string {
	host := normalizePublicURL(d.cfg.PublicURL)
	if host == "" {
		addr := d.cfg.ServerAddr
		if strings.HasPrefix(addr, ":") {
			addr = "localhost" + addr
		}
		host = addr
	}
	return "https://" + host + d.cfg.VoicePath
}
