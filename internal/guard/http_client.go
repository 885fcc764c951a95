package guard

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// httpSessionClient implements SessionClient against the platform's HTTP API:
// POST /api/session/ping and POST /api/auth/logout, both bearer-authenticated
// with no request body.
type httpSessionClient struct {
	pingURL     string
	logoutURL   string
	accessToken func() string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewHTTPSessionClient creates a SessionClient that talks to the given base
// URL. accessToken is read per-request so token refreshes are picked up.
func NewHTTPSessionClient(baseURL string, accessToken func() string, logger *slog.Logger) SessionClient {
	return &httpSessionClient{
		pingURL:     baseURL + "/api/session/ping",
		logoutURL:   baseURL + "/api/auth/logout",
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Ping confirms the session is still valid server-side. Any non-2xx status
// counts as rejection.
func (c *httpSessionClient) Ping(ctx context.Context) error {
	return c.post(ctx, c.pingURL)
}

// Logout invalidates the server-side session.
func (c *httpSessionClient) Logout(ctx context.Context) error {
	return c.post(ctx, c.logoutURL)
}

func (c *httpSessionClient) post(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("session endpoint returned non-success status: %d", resp.StatusCode)
	}

	return nil
}
