package monitor

import (
	"net"
	"testing"
)

func TestURLGuardAllowPrivate(t *testing.T) {
	g := NewURLGuard(true)

	valid := []string{"", "http://localhost:8080/health", "https://api.example.com/status", "http://10.0.0.5/health"}
	for _, u := range valid {
		if err := g.ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", u, err)
		}
	}

	invalid := []string{"ftp://example.com", "example.com/health", "http://", "http://169.254.169.254/latest", "http://metadata.google.internal/"}
	for _, u := range invalid {
		if err := g.ValidateURL(u); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", u)
		}
	}
}

func TestURLGuardBlockPrivate(t *testing.T) {
	g := NewURLGuard(false)
	g.lookupIP = func(host string) ([]net.IP, error) {
		switch host {
		case "public.example.com":
			return []net.IP{net.ParseIP("93.184.216.34")}, nil
		case "internal.example.com":
			return []net.IP{net.ParseIP("192.168.1.10")}, nil
		case "loop.example.com":
			return []net.IP{net.ParseIP("127.0.0.1")}, nil
		}
		return nil, &net.DNSError{Err: "no such host", Name: host}
	}

	if err := g.ValidateURL("https://public.example.com/health"); err != nil {
		t.Errorf("public host rejected: %v", err)
	}

	for _, u := range []string{
		"http://localhost/health",
		"https://internal.example.com/health",
		"https://loop.example.com/health",
		"https://missing.example.com/health",
	} {
		if err := g.ValidateURL(u); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", u)
		}
	}
}
