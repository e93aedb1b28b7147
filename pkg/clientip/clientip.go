package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client IP for rate limiting and the interaction log.
// X-Forwarded-For is honored first (the API sits behind a reverse proxy in
// production), then X-Real-IP, then RemoteAddr.
func RealClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if ips := strings.Split(forwarded, ","); len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
