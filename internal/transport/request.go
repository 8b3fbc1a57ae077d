package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/stocksync/stocksync/pkg/constants"
	"github.com/stocksync/stocksync/pkg/errors"
	"github.com/stocksync/stocksync/pkg/logging"
)

// ReadBody reads the response body and returns an APIError for non-2xx statuses.
func ReadBody(resp *http.Response, service string) ([]byte, error) {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Str("service", service).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		endpoint := ""
		if resp.Request != nil && resp.Request.URL != nil {
			endpoint = resp.Request.URL.Path
		}
		return nil, &errors.APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Message:    errorMessage(body),
		}
	}

	return body, nil
}

// DecodeResponse decodes a JSON response into the target structure. A nil
// target discards the body after the status check.
func DecodeResponse(resp *http.Response, service string, target any) error {
	body, err := ReadBody(resp, service)
	if err != nil {
		return err
	}
	if target == nil || len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", service+" response", err)
	}

	return nil
}

func errorMessage(body []byte) string {
	if len(body) > constants.MaxErrorBodyBytes {
		body = body[:constants.MaxErrorBodyBytes]
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "empty response body"
	}
	return msg
}
