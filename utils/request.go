package utils

import (
	"net/http"
	"strings"
)

// GetUserAgent returns the User-Agent string from the request
func GetUserAgent(r *http.Request) string {
	return r.Header.Get("User-Agent")
}

// GetIP returns the client address, preferring the first X-Forwarded-For hop.
func GetIP(r *http.Request) string {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		return r.RemoteAddr
	}
	if first, _, ok := strings.Cut(ip, ","); ok {
		return strings.TrimSpace(first)
	}
	return ip
}
