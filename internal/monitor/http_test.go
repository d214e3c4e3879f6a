package monitor

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProbeEmptyURL(t *testing.T) {
	// A client that fails the test if it is ever used.
	p := &HTTPProber{client: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected request to %s", r.URL)
		return nil, nil
	})}}

	got := p.Probe(context.Background(), "", "key")
	if got.OK || got.StatusCode != 0 || got.Err != "" {
		t.Errorf("Probe(\"\") = %+v, want zero result", got)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestProbeStatusClassification(t *testing.T) {
	codes := []struct {
		code int
		ok   bool
	}{
		{200, true},
		{201, true},
		{204, true},
		{299, true},
		{301, false},
		{304, false},
		{401, false},
		{404, false},
		{500, false},
		{503, false},
	}

	for _, tc := range codes {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tc.code >= 300 && tc.code < 400 {
				w.Header().Set("Location", "/elsewhere")
			}
			w.WriteHeader(tc.code)
		}))

		p := NewHTTPProber()
		p.client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

		got := p.Probe(context.Background(), srv.URL, "")
		srv.Close()

		if got.OK != tc.ok {
			t.Errorf("status %d: OK = %v, want %v", tc.code, got.OK, tc.ok)
		}
		if got.StatusCode != tc.code {
			t.Errorf("status %d: StatusCode = %d", tc.code, got.StatusCode)
		}
		if got.Err != "" {
			t.Errorf("status %d: unexpected Err %q", tc.code, got.Err)
		}
	}
}

func TestProbeBearerHeader(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
	}))
	defer srv.Close()

	p := NewHTTPProber()
	p.Probe(context.Background(), srv.URL, "abc")
	p.Probe(context.Background(), srv.URL, "")

	if len(gotAuth) != 2 {
		t.Fatalf("got %d requests, want 2", len(gotAuth))
	}
	if gotAuth[0] != "Bearer abc" {
		t.Errorf("Authorization with key = %q, want %q", gotAuth[0], "Bearer abc")
	}
	if gotAuth[1] != "" {
		t.Errorf("Authorization without key = %q, want empty", gotAuth[1])
	}
}

func TestProbeTransportFailure(t *testing.T) {
	// Grab a free port and close it so the connection is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	got := NewHTTPProber().Probe(context.Background(), "http://"+addr+"/health", "")
	if got.OK {
		t.Error("OK = true for refused connection")
	}
	if got.Err == "" {
		t.Error("Err is empty for refused connection")
	}
	if got.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", got.StatusCode)
	}
}

func TestProbeMalformedURL(t *testing.T) {
	got := NewHTTPProber().Probe(context.Background(), "http://[::1", "")
	if got.OK || got.Err == "" {
		t.Errorf("Probe(malformed) = %+v, want failure with error", got)
	}
}

func TestProbeCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := NewHTTPProber().Probe(ctx, srv.URL, "")
	if got.OK || got.Err == "" {
		t.Errorf("Probe(cancelled) = %+v, want failure with error", got)
	}
}
