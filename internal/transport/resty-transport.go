package transport

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/RassulYunussov/tinderclient/common"
	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"
)

type restyTransport struct {
	client *resty.Client
}

// CreateRestyTransport returns the raw transport used when the caller does not inject one.
// Retries are disabled on the resty client; the dispatcher owns the retry policy.
func CreateRestyTransport(timeout time.Duration) common.Transport {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal
	return &restyTransport{client: client}
}

// WrapResty turns an existing resty client into a transport.
func WrapResty(client *resty.Client) common.Transport {
	return &restyTransport{client: client}
}

func (t *restyTransport) Do(ctx context.Context, r *common.Request) (*common.Response, error) {
	req := t.client.R().SetContext(ctx)
	for _, h := range r.Headers {
		req.SetHeader(h.Name, h.Value)
	}
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}
	req.SetHeader("Accept", "application/json")

	resp, err := req.Execute(r.Method, r.URL)
	if err != nil {
		return nil, err
	}

	out := &common.Response{
		StatusCode: resp.StatusCode(),
		Status:     reasonPhrase(resp.StatusCode(), resp.Status()),
		Raw:        resp.Body(),
	}
	if len(out.Raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(out.Raw, &out.Payload); err != nil {
		if out.StatusCode < http.StatusMultipleChoices {
			return nil, fmt.Errorf("decode response body: %w", err)
		}
		out.Payload = common.Payload{}
	}
	return out, nil
}

// reasonPhrase strips the numeric code from a status line ("401 Unauthorized" -> "Unauthorized").
func reasonPhrase(code int, status string) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if phrase == "" {
		return http.StatusText(code)
	}
	return phrase
}
