package classifier

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/RassulYunussov/tinderclient/common"
	local_errors "github.com/RassulYunussov/tinderclient/internal/errors"
)

// Classify maps a raw response onto the error taxonomy.
// It returns the payload unchanged when the response is a success. The
// internal status field is only looked up when the payload is an object, and
// only the number 200 counts as an internal success.
func Classify(statusCode int, status string, payload common.Payload) (common.Payload, error) {
	if statusCode >= http.StatusMultipleChoices {
		if statusCode == http.StatusUnauthorized {
			return common.Payload{}, local_errors.ErrNotAuthorized
		}
		return common.Payload{}, local_errors.HTTP(statusCode, status)
	}
	body, ok := payload.Object()
	if !ok {
		return payload, nil
	}
	if internal := body["status"]; common.IsTruthy(internal) && !isOK(internal) {
		return common.Payload{}, local_errors.HTTP(internalCode(internal), message(body["error"]))
	}
	return payload, nil
}

// ClassifyResponse is Classify over a transport response.
func ClassifyResponse(r *common.Response) (common.Payload, error) {
	return Classify(r.StatusCode, r.Status, r.Payload)
}

func isOK(v any) bool {
	n, ok := v.(float64)
	return ok && n == http.StatusOK
}

func internalCode(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(t); err == nil {
			return n
		}
	}
	return 0
}

func message(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

type classifyingTransport struct {
	client common.Transport
}

// CreateClassifyingTransport returns a transport whose errors are already classified.
// On a classified failure the raw response is still returned alongside the error.
func CreateClassifyingTransport(client common.Transport) common.Transport {
	return &classifyingTransport{client: client}
}

func (c *classifyingTransport) Do(ctx context.Context, r *common.Request) (*common.Response, error) {
	resp, err := c.client.Do(ctx, r)
	if err != nil {
		return nil, err
	}
	if _, err := ClassifyResponse(resp); err != nil {
		return resp, err
	}
	return resp, nil
}
