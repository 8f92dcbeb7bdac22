// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the navcms API: admin key
// authentication, per-IP rate limiting, CORS, security headers and timeouts.
package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
)

// ErrorResponse is the JSON body written for rejected requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// ClientIP returns the client address of a request without the port.
// chi's RealIP middleware rewrites RemoteAddr from X-Real-IP and
// X-Forwarded-For when it runs earlier in the chain.
func ClientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
