package testutil

import (
	"net/http"
	"time"

	"sipeka/pkg/platform/middleware/metadata"
	"sipeka/pkg/requestcontext"
)

// WithFixedTime pins the request-scoped clock, simulating the request
// time middleware. Submission dates and import defaults derive from it.
func WithFixedTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithRequestID adds a request id to the request context, simulating the
// request id middleware.
func WithRequestID(req *http.Request, id string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), id))
}

// WithAdminToken sets the staff token header checked by the admin
// middleware.
func WithAdminToken(req *http.Request, token string) *http.Request {
	req.Header.Set("X-Admin-Token", token)
	return req
}

// WithClient adds client IP and User-Agent to the request context,
// simulating the metadata middleware.
func WithClient(req *http.Request, ip, userAgent string) *http.Request {
	return req.WithContext(metadata.WithClientMetadata(req.Context(), ip, userAgent))
}
