package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/utils/logging"
	"github.com/secmon-lab/dinewise/pkg/utils/safe"
)

// DefaultBaseURL is the Twilio REST API root
const DefaultBaseURL = "https://api.twilio.com"

const apiVersion = "2010-04-01"

// ErrAPI is returned (wrapped) when the API answers with a non-2xx status
var ErrAPI = goerr.New("twilio API error")

// Config holds credentials and endpoints for the Twilio client
type Config struct {
	AccountSID string
	AuthToken  string `masq:"secret"`
	FromNumber string
	// CallbackNumber is spoken to the restaurant as the number to call back
	CallbackNumber string
	BaseURL        string
	HTTPClient     *http.Client
}

// IsConfigured reports whether live calls can be placed. Account SIDs
// always start with "AC".
func (c Config) IsConfigured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && strings.HasPrefix(c.AccountSID, "AC")
}

// client implements Service interface against the Twilio REST API
type client struct {
	cfg Config
}

// New returns a live client when cfg is configured and a simulator otherwise
func New(cfg Config) Service {
	if !cfg.IsConfigured() {
		logging.Default().Warn("Twilio credentials not configured, calls will be simulated")
		return NewSimulator()
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &client{cfg: cfg}
}

func (c *client) Simulated() bool {
	return false
}

func (c *client) accountURL(path string) string {
	return fmt.Sprintf("%s/%s/Accounts/%s/%s", c.cfg.BaseURL, apiVersion, url.PathEscape(c.cfg.AccountSID), path)
}

func (c *client) do(ctx context.Context, method, endpoint string, form url.Values, out any) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return goerr.Wrap(err, "failed to build twilio request")
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call twilio", goerr.V("endpoint", endpoint))
	}
	defer safe.Close(ctx, resp.Body)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return goerr.Wrap(err, "failed to read twilio response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &apiErr)
		return goerr.Wrap(ErrAPI, "twilio request failed",
			goerr.V("status", resp.StatusCode),
			goerr.V("code", apiErr.Code),
			goerr.V("message", apiErr.Message),
		)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return goerr.Wrap(err, "failed to decode twilio response")
	}
	return nil
}

type callResource struct {
	SID      string  `json:"sid"`
	Status   string  `json:"status"`
	Duration *string `json:"duration"`
}

type recordingList struct {
	Recordings []struct {
		URI string `json:"uri"`
	} `json:"recordings"`
}

func (c *client) PlaceCall(ctx context.Context, req CallRequest) (*CallResult, error) {
	if req.To == "" {
		return nil, goerr.New("destination number is required")
	}
	if req.Details.CustomerPhone == "" {
		req.Details.CustomerPhone = c.cfg.CallbackNumber
	}

	twiml, err := RenderTwiML(req.Script, req.Details)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("To", req.To)
	form.Set("From", c.cfg.FromNumber)
	form.Set("Twiml", twiml)
	form.Set("Timeout", "30")
	form.Set("Record", "true")

	var call callResource
	if err := c.do(ctx, http.MethodPost, c.accountURL("Calls.json"), form, &call); err != nil {
		return nil, goerr.Wrap(err, "failed to place reservation call", goerr.V("to", req.To))
	}

	logging.From(ctx).Info("reservation call placed", "call_sid", call.SID, "status", call.Status)
	return &CallResult{
		Handle:            call.SID,
		Status:            call.Status,
		EstimatedDuration: EstimatedCallDuration,
	}, nil
}

func (c *client) CallStatus(ctx context.Context, handle string) (*CallStatus, error) {
	var call callResource
	if err := c.do(ctx, http.MethodGet, c.accountURL("Calls/"+url.PathEscape(handle)+".json"), nil, &call); err != nil {
		return nil, goerr.Wrap(err, "failed to get call status", goerr.V("call_sid", handle))
	}

	status := &CallStatus{Status: call.Status}
	if call.Duration != nil {
		if d, err := strconv.Atoi(*call.Duration); err == nil {
			status.Duration = &d
		}
	}

	if call.Status == "completed" {
		status.RecordingURL = c.recordingURL(ctx, handle)
	}

	return status, nil
}

// recordingURL returns the mp3 URL of the first recording, or "" when none
// is available. Lookup failures are logged and not returned.
func (c *client) recordingURL(ctx context.Context, handle string) string {
	q := url.Values{}
	q.Set("CallSid", handle)
	q.Set("PageSize", "1")

	var list recordingList
	if err := c.do(ctx, http.MethodGet, c.accountURL("Recordings.json?"+q.Encode()), nil, &list); err != nil {
		logging.From(ctx).Warn("could not fetch recording", "error", err, "call_sid", handle)
		return ""
	}
	if len(list.Recordings) == 0 || list.Recordings[0].URI == "" {
		return ""
	}
	return c.cfg.BaseURL + strings.Replace(list.Recordings[0].URI, ".json", ".mp3", 1)
}
