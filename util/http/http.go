package http

import (
	"context"
	"time"
)

type IClient interface {
	DoHTTPRequest(ctx context.Context, requestParam *RequestParam) error
}

// RequestParam describes a single request.
//
// Body may be nil, []byte, an io.Reader, or any value that is JSON encoded.
// Response may be nil, *[]byte (raw body), an io.Writer, or a pointer that the
// body is JSON decoded into.
type RequestParam struct {
	RequestURI string
	Method     string
	Header     map[string]string
	Body       interface{}
	Response   interface{}

	Timeout time.Duration
}
