package requester

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/viper"
)

// HTTPRequester is a thin JSON client for gateway REST calls. A fresh
// instance is created per gateway invocation so that rotated credentials
// never hit a stale connection assumption.
type HTTPRequester struct {
	client *http.Client
}

func NewHTTPRequester() *HTTPRequester {
	timeout := viper.GetInt("gateway_timeout")
	if timeout <= 0 {
		timeout = 30
	}
	return &HTTPRequester{
		client: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}
}

type requestConfig struct {
	body    io.Reader
	headers map[string]string
}

type RequestOption func(*requestConfig)

func WithBody(body any) RequestOption {
	return func(cfg *requestConfig) {
		if body == nil {
			return
		}
		switch v := body.(type) {
		case io.Reader:
			cfg.body = v
		case []byte:
			cfg.body = bytes.NewReader(v)
		case string:
			cfg.body = bytes.NewReader([]byte(v))
		default:
			raw, err := json.Marshal(body)
			if err != nil {
				return
			}
			cfg.body = bytes.NewReader(raw)
			cfg.headers["Content-Type"] = "application/json"
		}
	}
}

func WithHeader(headers map[string]string) RequestOption {
	return func(cfg *requestConfig) {
		for k, v := range headers {
			cfg.headers[k] = v
		}
	}
}

func (r *HTTPRequester) NewRequest(method, url string, setters ...RequestOption) (*http.Request, error) {
	cfg := &requestConfig{
		headers: make(map[string]string),
	}
	for _, setter := range setters {
		setter(cfg)
	}

	req, err := http.NewRequest(method, url, cfg.body)
	if err != nil {
		return nil, err
	}
	for k, v := range cfg.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// SendRequest executes the request and decodes a JSON response into response
// when it is non-nil. Non-2xx statuses are returned as errors carrying the
// response body for diagnostics.
func (r *HTTPRequester) SendRequest(req *http.Request, response any) (int, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, fmt.Errorf("%s: %s", resp.Status, string(raw))
	}

	if response != nil {
		if err := json.Unmarshal(raw, response); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
