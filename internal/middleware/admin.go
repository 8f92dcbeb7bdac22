// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// HeaderAPIKey is the alternative header carrying the admin key.
const HeaderAPIKey = "X-API-Key"

// AdminKeyAuth creates middleware that requires the static admin API key,
// sent as "Authorization: Bearer <key>" or in the X-API-Key header.
// An empty key rejects every request.
func AdminKeyAuth(key string) func(http.Handler) http.Handler {
	expected := []byte(key)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(expected) == 0 {
				WriteError(w, http.StatusUnauthorized, "admin API is disabled")
				return
			}

			provided, ok := extractAPIKey(r)
			if !ok {
				WriteError(w, http.StatusUnauthorized, "missing admin API key")
				return
			}

			if subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
				slog.Warn("invalid admin API key", "ip", ClientIP(r), "path", r.URL.Path,
					"category", "system")
				WriteError(w, http.StatusUnauthorized, "invalid admin API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractAPIKey reads the key from the Authorization or X-API-Key header.
func extractAPIKey(r *http.Request) (string, bool) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "bearer") {
			return "", false
		}
		token = strings.TrimSpace(token)
		return token, token != ""
	}

	key := strings.TrimSpace(r.Header.Get(HeaderAPIKey))
	return key, key != ""
}
