package monitor

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// URLGuard validates endpoint URLs before they are saved
type URLGuard struct {
	allowPrivateIPs bool
	lookupIP        func(host string) ([]net.IP, error)
}

// NewURLGuard creates a validator. With allowPrivateIPs the hostname is not
// resolved, so URLs for hosts that are offline right now can still be saved.
func NewURLGuard(allowPrivateIPs bool) *URLGuard {
	return &URLGuard{
		allowPrivateIPs: allowPrivateIPs,
		lookupIP:        net.LookupIP,
	}
}

// ValidateURL checks rawURL. An empty URL is valid and means unconfigured.
func (g *URLGuard) ValidateURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("URL must start with http:// or https://")
	}

	hostname := strings.ToLower(parsedURL.Hostname())
	if hostname == "" {
		return fmt.Errorf("URL must have a hostname")
	}

	if isMetadataHost(hostname) {
		return fmt.Errorf("access to cloud metadata endpoints is not allowed")
	}

	if g.allowPrivateIPs {
		return nil
	}

	if isLocalhostName(hostname) {
		return fmt.Errorf("access to localhost is not allowed")
	}

	ips, err := g.lookupIP(hostname)
	if err != nil {
		return fmt.Errorf("failed to resolve hostname: %w", err)
	}
	if len(ips) == 0 {
		return fmt.Errorf("hostname does not resolve to any IP address")
	}

	for _, ip := range ips {
		if err := validateIP(ip); err != nil {
			return fmt.Errorf("IP address %s is not allowed: %w", ip, err)
		}
	}

	return nil
}

func isMetadataHost(hostname string) bool {
	metadataEndpoints := []string{
		"169.254.169.254", // AWS, Azure, GCP metadata
		"metadata.google.internal",
		"169.254.170.2", // AWS ECS metadata
		"fd00:ec2::254", // AWS IMDSv2 IPv6
	}

	for _, blocked := range metadataEndpoints {
		if hostname == blocked || strings.HasSuffix(hostname, "."+blocked) {
			return true
		}
	}
	return false
}

func isLocalhostName(hostname string) bool {
	switch hostname {
	case "localhost", "localhost.localdomain":
		return true
	}
	return false
}

func validateIP(ip net.IP) error {
	switch {
	case ip.IsPrivate():
		return fmt.Errorf("access to private IP addresses is not allowed")
	case ip.IsLoopback():
		return fmt.Errorf("access to loopback addresses is not allowed")
	case ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast():
		return fmt.Errorf("access to link-local addresses is not allowed")
	case ip.IsMulticast():
		return fmt.Errorf("access to multicast addresses is not allowed")
	case ip.IsUnspecified():
		return fmt.Errorf("access to unspecified addresses is not allowed")
	}
	return nil
}
