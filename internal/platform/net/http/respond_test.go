package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	perr "timeslider/internal/platform/errors"
	pnet "timeslider/internal/platform/net"
	phttp "timeslider/internal/platform/net/http"
)

// helper to build a request carrying request and session ids
func reqWithIDs(method, path, rid, sid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(pnet.WithRequest(req.Context(), rid, sid))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v body=%q", err, rec.Body.String())
	}
	return env
}

func TestJSONHelper(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTeapot, map[string]any{"k": "v"})
	if rec.Code != http.StatusTeapot {
		t.Fatalf("JSON status: expected 418, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected content-type set")
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := reqWithIDs("GET", "/err", "rid-3", "sess-3")

	phttp.RespondError(rec, req, perr.WithField(perr.NotFoundf("layer %q", "roads"), "id"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	env := decode(t, rec)
	if env.Code != perr.ErrorCodeNotFound || env.Error == "" || env.RequestID != "rid-3" || env.SessionID != "sess-3" || env.Field != "id" {
		t.Fatalf("bad error envelope: %+v", env)
	}
}

func TestReturnStyle_Handle_OKCreatedNoContent(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.OK(map[string]any{"date": 1850})
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithIDs("GET", "/ok", "rid-4", "sess-4"))
	if rec.Code != http.StatusOK {
		t.Fatalf("handle OK code: %d", rec.Code)
	}
	if env := decode(t, rec); env.StatusCode != 200 || env.RequestID != "rid-4" || env.SessionID != "sess-4" || env.Data == nil {
		t.Fatalf("bad envelope: %+v", env)
	}

	hc := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Created(map[string]any{"id": 99})
	})
	recC := httptest.NewRecorder()
	hc(recC, reqWithIDs("POST", "/created", "rid-5", ""))
	if recC.Code != http.StatusCreated {
		t.Fatalf("handle Created code: %d", recC.Code)
	}

	hn := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.NoContent()
	})
	recN := httptest.NewRecorder()
	hn(recN, reqWithIDs("DELETE", "/no", "rid-6", ""))
	if recN.Code != http.StatusNoContent || recN.Body.Len() != 0 {
		t.Fatalf("handle NoContent code=%d body=%q", recN.Code, recN.Body.String())
	}
}

func TestReturnStyle_ErrorAndHeaders(t *testing.T) {
	hErr := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Error(perr.Unavailablef("control not attached"))
	})
	rec := httptest.NewRecorder()
	hErr(rec, reqWithIDs("GET", "/err", "rid-7", ""))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("handle error code: %d", rec.Code)
	}
	if env := decode(t, rec); env.Code != perr.ErrorCodeUnavailable {
		t.Fatalf("bad error code: %+v", env)
	}

	hHdr := phttp.Handle(func(r *http.Request) phttp.Response {
		resp := phttp.OK("hello")
		resp.Header = http.Header{}
		resp.Header.Set("X-Thing", "yup")
		return resp
	})
	rec2 := httptest.NewRecorder()
	hHdr(rec2, reqWithIDs("GET", "/hdr", "rid-8", ""))
	if got := rec2.Header().Get("X-Thing"); got != "yup" {
		t.Fatalf("expected header override, got %q", got)
	}

	// a plain error maps to unknown 500
	hGen := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Error(errors.New("boom"))
	})
	rec3 := httptest.NewRecorder()
	hGen(rec3, reqWithIDs("GET", "/gen", "rid-9", ""))
	if rec3.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for generic error, got %d", rec3.Code)
	}
}

func TestReturnStyle_Bytes(t *testing.T) {
	doc := []byte("layers:\n- id: roads\n")
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Bytes("application/yaml", doc)
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithIDs("GET", "/style", "rid-raw", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Fatalf("content-type = %q", ct)
	}
	if rec.Body.String() != string(doc) {
		t.Fatalf("body = %q, want raw document", rec.Body.String())
	}

	hEmpty := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.Bytes("application/json", nil)
	})
	rec2 := httptest.NewRecorder()
	hEmpty(rec2, reqWithIDs("GET", "/style", "", ""))
	if rec2.Code != http.StatusOK || rec2.Body.Len() != 0 {
		t.Fatalf("empty bytes code=%d body=%q", rec2.Code, rec2.Body.String())
	}
}

func TestFallbacks(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	r.Route("/api/v1", func(api phttp.Router) {
		api.Get("/timeslider/state", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	})
	phttp.Fallbacks(r)

	cases := []struct {
		method, path string
		status       int
		code         perr.ErrorCode
	}{
		{http.MethodGet, "/api/v1/timeslider/nope", http.StatusNotFound, perr.ErrorCodeNotFound},
		{http.MethodGet, "/elsewhere", http.StatusNotFound, perr.ErrorCodeNotFound},
		{http.MethodPost, "/api/v1/timeslider/state", http.StatusMethodNotAllowed, perr.ErrorCodeMethodNotAllowed},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.status {
			t.Fatalf("%s %s = %d, want %d", tc.method, tc.path, rec.Code, tc.status)
		}
		if env := decode(t, rec); env.Code != tc.code || env.Error == "" {
			t.Fatalf("%s %s envelope = %+v", tc.method, tc.path, env)
		}
	}
}
