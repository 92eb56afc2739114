package middleware

import "net/http"

// Chain wraps h so that middlewares run first to last:
//
//	Chain(mux, SecurityHeaders, RequestLogging(m), AuthMiddleware(auth, users))
//
// sets headers, then starts the request log, then resolves the identity.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
