// Package http is the transport layer: a chi backed router, the server, and
// the JSON envelope every endpoint answers with
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "timeslider/internal/platform/errors"
	pnet "timeslider/internal/platform/net"
)

// Envelope wraps every JSON reply. Code and Error are set on failure, Data on
// success.
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	SessionID  string         `json:"session_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// envelope fills status and ids from r and the failure fields from err
func envelope(r *stdhttp.Request, status int, err error, data any) Envelope {
	env := Envelope{
		StatusCode: status,
		Status:     stdhttp.StatusText(status),
		RequestID:  pnet.RequestID(r.Context()),
		SessionID:  pnet.SessionID(r.Context()),
		Data:       data,
	}
	if err != nil {
		w := perr.WireFrom(err)
		env.Code, env.Error, env.Field = w.Code, w.Message, w.Field
	}
	return env
}

// JSON writes v as application/json with status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError writes err as an envelope with the status its code maps to
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status := perr.HTTPStatus(err)
	JSON(w, status, envelope(r, status, err, nil))
}

// Fallbacks answers unknown routes and wrong verbs with error envelopes
// instead of chi's plain text
func Fallbacks(r Router) {
	r.NotFound(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		RespondError(w, req, perr.NotFoundf("no route for %s", req.URL.Path))
	})
	r.MethodNotAllowed(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		RespondError(w, req, perr.MethodNotAllowedf("%s not allowed on %s", req.Method, req.URL.Path))
	})
}

// Response is what return-style handlers produce. Body may be an error, in
// which case its code picks the status.
type Response struct {
	Status int
	Body   any
	// Header is added to the reply before writing
	Header stdhttp.Header
	// Raw skips the envelope and writes the bytes as ContentType
	Raw         []byte
	ContentType string
}

// Handle adapts a Response returning func to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}

	switch body := resp.Body.(type) {
	case error:
		RespondError(w, r, body)
	default:
		switch {
		case status == stdhttp.StatusNoContent:
			w.WriteHeader(status)
		case resp.Raw != nil:
			w.Header().Set("Content-Type", resp.ContentType)
			w.WriteHeader(status)
			_, _ = w.Write(resp.Raw)
		default:
			JSON(w, status, envelope(r, status, nil, body))
		}
	}
}

// OK is a 200 carrying data
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created is a 201 carrying data
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// NoContent is an empty 204
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error maps err to its status and an error envelope
func Error(err error) Response { return Response{Body: err} }

// Bytes is a 200 that writes body verbatim as contentType
func Bytes(contentType string, body []byte) Response {
	if body == nil {
		body = []byte{}
	}
	return Response{Status: stdhttp.StatusOK, Raw: body, ContentType: contentType}
}
