package uploadtoken

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/foxseedlab/rokuon/internal/uploadtoken"
)

// RequestTimeout bounds the whole token exchange.
const RequestTimeout = 3 * time.Second

const maxResponseBytes = 1 << 20

type HTTPProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
	timeout  time.Duration
}

func NewHTTPProvider(endpoint, apiKey string) uploadtoken.Provider {
	return &HTTPProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{},
		timeout:  RequestTimeout,
	}
}

type uploadResponse struct {
	ID          string `json:"id"`
	UploadToken string `json:"upload_token"`
}

func (p *HTTPProvider) CreateUploadToken(ctx context.Context) (string, error) {
	if p.apiKey == "" {
		return "", &uploadtoken.AuthorizationError{Reason: "no API key is configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader([]byte(`{}`)))
	if err != nil {
		return "", &uploadtoken.AuthorizationError{Reason: "invalid authorization endpoint", Err: err}
	}
	req.Header.Set("Authorization", "Token "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", &uploadtoken.AuthorizationError{Reason: fmt.Sprintf("request timed out after %s", p.timeout), Err: err}
		}
		return "", &uploadtoken.AuthorizationError{Reason: "request failed", Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &uploadtoken.AuthorizationError{Reason: "failed to read response", Err: err}
	}
	if !isHTTPSuccessStatus(resp.StatusCode) {
		return "", &uploadtoken.AuthorizationError{Reason: fmt.Sprintf("authorization server returned status %d", resp.StatusCode)}
	}

	var out uploadResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &uploadtoken.AuthorizationError{Reason: "response is not valid JSON", Err: err}
	}
	if out.UploadToken == "" {
		return "", &uploadtoken.AuthorizationError{Reason: "no upload token received from the server"}
	}
	return out.UploadToken, nil
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
