package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/okian/mergington/internal/domain/model"
)

// outcome of a single roster request.
type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeDuplicate
	outcomeRejected
	outcomeFailed
)

// HTTPClient wraps http.Client with the activities API routes.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

func (c *HTTPClient) health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) list(ctx context.Context) (model.Directory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/activities", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list activities: status %d", resp.StatusCode)
	}
	var dir model.Directory
	if err := json.NewDecoder(resp.Body).Decode(&dir); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return dir, nil
}

// roster posts to /activities/{name}/{action}?email= and classifies the answer.
func (c *HTTPClient) roster(ctx context.Context, action string, s Signup) outcome {
	u := c.baseURL + "/activities/" + url.PathEscape(s.Activity) + "/" + action + "?email=" + url.QueryEscape(s.Email)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, http.NoBody)
	if err != nil {
		return outcomeFailed
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return outcomeFailed
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return outcomeAccepted
	case http.StatusBadRequest:
		var body struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Detail == model.ErrAlreadySignedUp.Error() {
			return outcomeDuplicate
		}
		return outcomeRejected
	default:
		return outcomeFailed
	}
}
