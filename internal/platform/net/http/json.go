package http

import (
	"net/http"

	"timeslider/internal/platform/net/http/bind"
)

// JSONHandler adapts a pure JSON handler to a platform Handler
// opts tune body parsing, for instance to accept an empty body
func JSONHandler[T any](fn func(*http.Request, T) (any, error), opts ...bind.JSONOptions) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r, opts...)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

// JSONHandlerNoBody calls fn without parsing a request body and wraps the result
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response { return result(fn(r)) })
}

// result lets handlers return a Response when they need a raw body or a status
func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}

// OptionalBody accepts an empty body as the zero value of the payload
func OptionalBody() bind.JSONOptions {
	return bind.JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true, AllowEmptyBody: true}
}
