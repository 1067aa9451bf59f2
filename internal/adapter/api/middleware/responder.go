package middleware

import "net/http"

// Responder writes the error responses the middleware chain short-circuits with.
type Responder interface {
	Unauthorized(w http.ResponseWriter, r *http.Request)
	Forbidden(w http.ResponseWriter, r *http.Request)
	TooManyRequests(w http.ResponseWriter, r *http.Request)
	Internal(w http.ResponseWriter, r *http.Request, err error)
}
