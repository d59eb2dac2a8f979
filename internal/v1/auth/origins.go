package auth

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ParseAllowedOrigins splits a CSV origins value into a list. An empty value
// or the single entry "*" means "allow everything".
func ParseAllowedOrigins(csv string) []string {
	if csv == "" {
		return []string{"*"}
	}
	parts := strings.Split(csv, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// AllowAll reports whether the origin list is the wildcard list.
func AllowAll(origins []string) bool {
	return len(origins) == 1 && origins[0] == "*"
}

// ValidateOrigin checks the request's Origin header against the allow-list.
// Requests without an Origin header are allowed; non-browser clients
// (tests, CLIs) do not send one.
func ValidateOrigin(r *http.Request, allowedOrigins []string) error {
	if AllowAll(allowedOrigins) {
		return nil
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		return nil
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin URL: %w", err)
	}

	for _, allowed := range allowedOrigins {
		allowedURL, err := url.Parse(allowed)
		if err != nil {
			continue
		}
		if originURL.Scheme == allowedURL.Scheme && originURL.Host == allowedURL.Host {
			return nil
		}
	}

	return fmt.Errorf("origin not allowed: %s", origin)
}
