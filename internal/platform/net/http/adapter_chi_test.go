package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func header(name string) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
			w.Header().Set(name, "1")
			next.ServeHTTP(w, req)
		})
	}
}

func write(body string) Handler {
	return func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { _, _ = w.Write([]byte(body)) }
}

func TestAdaptChi_ScopesAndVerbs(t *testing.T) {
	t.Parallel()

	m := chi.NewRouter()
	r := AdaptChi(m)
	r.Use(header("X-Root"))
	r.Get("/root", write("root"))

	r.Group(func(gr Router) {
		gr.Use(header("X-Group"))
		if gr.Mux() == nil {
			t.Fatalf("group Mux() returned nil")
		}
		gr.Get("/g/ping", write("g"))
	})

	r.Route("/timeslider", func(sr Router) {
		sr.Use(header("X-Route"))
		sr.Get("/state", write("state"))
		sr.Post("/forward", write("forward"))
		sr.Put("/date", write("date"))
		sr.Delete("/date", write("deleted"))
		sr.Handle("/raw", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
			_, _ = w.Write([]byte("raw"))
		}))
		sr.Route("/layers", func(lr Router) {
			lr.Get("/{id}", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
				_, _ = w.Write([]byte(chi.URLParam(req, "id")))
			})
		})
	})

	cases := []struct {
		method, path string
		body         string
		headers      []string
		absent       []string
	}{
		{"GET", "/root", "root", []string{"X-Root"}, []string{"X-Group", "X-Route"}},
		{"GET", "/g/ping", "g", []string{"X-Root", "X-Group"}, []string{"X-Route"}},
		{"GET", "/timeslider/state", "state", []string{"X-Root", "X-Route"}, []string{"X-Group"}},
		{"POST", "/timeslider/forward", "forward", []string{"X-Route"}, nil},
		{"PUT", "/timeslider/date", "date", []string{"X-Route"}, nil},
		{"DELETE", "/timeslider/date", "deleted", []string{"X-Route"}, nil},
		{"GET", "/timeslider/raw", "raw", []string{"X-Route"}, nil},
		{"GET", "/timeslider/layers/roads", "roads", []string{"X-Route"}, nil},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != stdhttp.StatusOK || rec.Body.String() != tc.body {
			t.Fatalf("%s %s = %d %q, want 200 %q", tc.method, tc.path, rec.Code, rec.Body.String(), tc.body)
		}
		for _, h := range tc.headers {
			if rec.Header().Get(h) != "1" {
				t.Fatalf("%s %s: missing %s", tc.method, tc.path, h)
			}
		}
		for _, h := range tc.absent {
			if rec.Header().Get(h) != "" {
				t.Fatalf("%s %s: unexpected %s", tc.method, tc.path, h)
			}
		}
	}
}

func TestAdaptChi_Fallbacks(t *testing.T) {
	t.Parallel()

	r := AdaptChi(chi.NewRouter())
	r.Route("/timeslider", func(sr Router) {
		sr.Method(stdhttp.MethodPut, "/date", write("date"))
	})
	r.NotFound(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusNotFound)
		_, _ = w.Write([]byte("nf"))
	})
	r.MethodNotAllowed(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusMethodNotAllowed)
		_, _ = w.Write([]byte("mna"))
	})

	cases := []struct {
		method, path string
		code         int
		body         string
	}{
		{stdhttp.MethodPut, "/timeslider/date", stdhttp.StatusOK, "date"},
		{stdhttp.MethodGet, "/timeslider/date", stdhttp.StatusMethodNotAllowed, "mna"},
		{stdhttp.MethodGet, "/timeslider/nope", stdhttp.StatusNotFound, "nf"},
		{stdhttp.MethodGet, "/nope", stdhttp.StatusNotFound, "nf"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.code || rec.Body.String() != tc.body {
			t.Fatalf("%s %s = %d %q, want %d %q", tc.method, tc.path, rec.Code, rec.Body.String(), tc.code, tc.body)
		}
	}
}
