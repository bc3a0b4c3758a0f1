package middleware

import "net/http"

// SecurityHeaders sets the browser hardening headers on every response.
// Cross-Origin-Embedder-Policy is not sent and resources may be embedded
// cross-origin so product images keep loading in other front-ends.
func SecurityHeaders(next http.Handler) http.Handler {
	headers := map[string]string{
		"Content-Security-Policy": "default-src 'self';style-src 'self' 'unsafe-inline';script-src 'self';" +
			"img-src 'self' data: https:;base-uri 'self';font-src 'self' https: data:;" +
			"form-action 'self';frame-ancestors 'self';object-src 'none';" +
			"script-src-attr 'none';upgrade-insecure-requests",
		"Cross-Origin-Opener-Policy":        "same-origin",
		"Cross-Origin-Resource-Policy":      "cross-origin",
		"Origin-Agent-Cluster":              "?1",
		"Referrer-Policy":                   "no-referrer",
		"Strict-Transport-Security":         "max-age=31536000; includeSubDomains",
		"X-Content-Type-Options":            "nosniff",
		"X-DNS-Prefetch-Control":            "off",
		"X-Download-Options":                "noopen",
		"X-Frame-Options":                   "SAMEORIGIN",
		"X-Permitted-Cross-Domain-Policies": "none",
		"X-XSS-Protection":                  "0",
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for k, v := range headers {
			h.Set(k, v)
		}
		h.Del("X-Powered-By")
		next.ServeHTTP(w, r)
	})
}
