package monitor

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// ProbeTimeout bounds every health check request
const ProbeTimeout = 5 * time.Second

// HTTPProber checks an endpoint with a single GET request
type HTTPProber struct {
	client *http.Client
}

// NewHTTPProber creates a prober with the fixed probe timeout
func NewHTTPProber() *HTTPProber {
	return &HTTPProber{
		client: &http.Client{
			Timeout: ProbeTimeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout: ProbeTimeout,
				}).DialContext,
				TLSHandshakeTimeout: ProbeTimeout,
			},
		},
	}
}

// Probe performs one GET against url. An empty url is reported as down
// without touching the network. Transport failures never escape as errors;
// they are recorded in the result instead.
func (h *HTTPProber) Probe(ctx context.Context, url, key string) ProbeResult {
	if url == "" {
		return ProbeResult{OK: false}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ProbeResult{OK: false, Err: fmt.Sprintf("failed to create request: %v", err)}
	}

	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	req.Header.Set("User-Agent", "apitray/1.0")

	start := time.Now()
	resp, err := h.client.Do(req)
	ping := int(time.Since(start).Milliseconds())

	if err != nil {
		return ProbeResult{OK: false, Err: fmt.Sprintf("request failed: %v", err), Ping: ping}
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused; the body itself is ignored.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return ProbeResult{
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		Ping:       ping,
	}
}
