package probe

import (
	"context"
	"net/http"
	"time"
)

type HTTPChecker struct {
	Client *http.Client
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
	}
}

// Check sends HEAD and falls back to GET when the server refuses HEAD.
// Any 2xx or 3xx counts as up.
func (h *HTTPChecker) Check(ctx context.Context, target string) CheckResult {
	start := time.Now()
	code, status, err := h.request(ctx, http.MethodHead, target)
	if err == nil && code == http.StatusMethodNotAllowed {
		code, status, err = h.request(ctx, http.MethodGet, target)
	}
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		return CheckResult{Success: false, Message: err.Error(), LatencyMS: latency}
	}
	return CheckResult{
		Success:    code >= 200 && code < 400,
		Message:    status,
		LatencyMS:  latency,
		StatusCode: code,
	}
}

func (h *HTTPChecker) request(ctx context.Context, method, target string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("User-Agent", "upmonitor-probe/1")
	resp, err := h.Client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	return resp.StatusCode, resp.Status, nil
}
