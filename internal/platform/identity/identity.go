// Package identity derives the rate-limit key for a request from coarse
// device/IP fingerprints. Resolution never fails; the weakest fallback is the
// zero address.
package identity

import (
	"net"
	"net/http"
	"strings"
)

const (
	deviceHeader       = "X-Device-Id"
	forwardedForHeader = "X-Forwarded-For"
	realIPHeader       = "X-Real-Ip"

	maxDeviceTokenLen = 128

	fallbackAddr = "0.0.0.0"
)

// Identity is an opaque rate-limit key plus the raw identifier it was built
// from.
type Identity struct {
	Key string
	Raw string
}

// Resolve prefers a client-supplied device token over network addresses: the
// token survives NAT and proxy churn. Oversized tokens are ignored rather
// than truncated so a client cannot mint unbounded key space.
func Resolve(r *http.Request) Identity {
	if token := r.Header.Get(deviceHeader); token != "" && len(token) <= maxDeviceTokenLen {
		return Identity{Key: "DEVICE#" + token, Raw: token}
	}

	addr := clientAddr(r)
	return Identity{Key: "IP#" + addr, Raw: addr}
}

func clientAddr(r *http.Request) string {
	if chain := r.Header.Get(forwardedForHeader); chain != "" {
		first := strings.TrimSpace(strings.Split(chain, ",")[0])
		if first != "" {
			return first
		}
	}

	if real := r.Header.Get(realIPHeader); real != "" {
		return real
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}

	return fallbackAddr
}
