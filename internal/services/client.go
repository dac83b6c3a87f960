package services

import (
	"net/http"
	"strings"
)

const loopbackIP = "127.0.0.1"

// ClientIP picks the visitor address from proxy headers, in order:
// X-Forwarded-For (first non-empty entry), X-Real-IP, the CDN header, then loopback.
// The request body is never consulted.
func ClientIP(h http.Header, cdnHeader string) string {
	for _, segment := range strings.Split(h.Get("X-Forwarded-For"), ",") {
		if ip := strings.TrimSpace(segment); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(h.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if cdnHeader != "" {
		if ip := strings.TrimSpace(h.Get(cdnHeader)); ip != "" {
			return ip
		}
	}
	return loopbackIP
}

// MaskIP zeroes the last IPv4 octet and hides IPv6 addresses entirely.
func MaskIP(ip string) string {
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == '.' {
			return ip[:i] + ".0"
		}
		if ip[i] == ':' {
			return "IPv6 (Masked)"
		}
	}
	return ip
}
