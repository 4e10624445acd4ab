package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// doProviderRequest performs a single JSON request against a provider API.
// There is deliberately no retry loop: a failure is classified and reported
// to the caller, which decides whether to resubmit the whole synthesis.
func doProviderRequest(ctx context.Context, client *http.Client, provider, method, url string, headers map[string]string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return raw, &providerHTTPError{Provider: provider, StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}
