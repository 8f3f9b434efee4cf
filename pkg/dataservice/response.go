package dataservice

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/impulsehq/impulse/pkg/core"
)

// handleResponse normalizes every data service response.
//
// Success responses with a JSON content type and a non-empty body are
// decoded into out; an empty, non-JSON, or unparseable success body leaves
// out untouched (logged, never an error). Failure responses become a
// ServiceError carrying the status and the parsed error body when there
// is one.
func (c *Client) handleResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.NewTransportError(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || !isJSON(resp) || len(strings.TrimSpace(string(raw))) == 0 {
			return nil
		}

		if err := json.Unmarshal(raw, out); err != nil {
			c.log.WithError(err).Errorf("failed to parse success response: %s", raw)
		}
		return nil
	}

	return newServiceError(resp.StatusCode, raw)
}

// newServiceError extracts a human message from an error payload, checking
// detail first, then message, then synthesizing from the status code
func newServiceError(status int, raw []byte) *core.ServiceError {
	var data map[string]any
	if len(strings.TrimSpace(string(raw))) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			data = nil
		}
	}

	message := fmt.Sprintf("HTTP %d", status)
	if detail, ok := data["detail"].(string); ok && detail != "" {
		message = detail
	} else if msg, ok := data["message"].(string); ok && msg != "" {
		message = msg
	}

	return &core.ServiceError{
		Message: message,
		Status:  status,
		Data:    data,
	}
}

func isJSON(resp *http.Response) bool {
	return strings.Contains(resp.Header.Get("Content-Type"), "application/json")
}
