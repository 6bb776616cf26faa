package httpx

import (
	"net/http"
	"strings"
)

// BaseURL reconstructs the public origin of r, honouring a TLS-terminating
// proxy. fallback is used when the request carries no Host.
func BaseURL(r *http.Request, fallback string) string {
	host := r.Host
	if fh := r.Header.Get("X-Forwarded-Host"); fh != "" {
		host = strings.TrimSpace(strings.Split(fh, ",")[0])
	}
	if host == "" {
		return strings.TrimRight(fallback, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p != "" {
		scheme = strings.TrimSpace(strings.Split(p, ",")[0])
	}
	return scheme + "://" + host
}
