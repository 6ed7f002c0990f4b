package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// chiRouter adapts the root chi mux or any subrouter of it
type chiRouter struct{ r chi.Router }

// AdaptChi wraps m as a Router
func AdaptChi(m *chi.Mux) Router { return chiRouter{r: m} }

func (c chiRouter) Method(m, p string, h Handler) { c.r.Method(m, p, http.HandlerFunc(h)) }

func (c chiRouter) Get(p string, h Handler)    { c.Method(http.MethodGet, p, h) }
func (c chiRouter) Post(p string, h Handler)   { c.Method(http.MethodPost, p, h) }
func (c chiRouter) Put(p string, h Handler)    { c.Method(http.MethodPut, p, h) }
func (c chiRouter) Delete(p string, h Handler) { c.Method(http.MethodDelete, p, h) }

func (c chiRouter) Handle(p string, h http.Handler)           { c.r.Handle(p, h) }
func (c chiRouter) Use(mw ...func(http.Handler) http.Handler) { c.r.Use(mw...) }

func (c chiRouter) Group(fn func(Router)) {
	c.r.Group(func(sub chi.Router) { fn(chiRouter{r: sub}) })
}

func (c chiRouter) Route(pattern string, fn func(Router)) {
	c.r.Route(pattern, func(sub chi.Router) { fn(chiRouter{r: sub}) })
}

func (c chiRouter) NotFound(h Handler)         { c.r.NotFound(h) }
func (c chiRouter) MethodNotAllowed(h Handler) { c.r.MethodNotAllowed(h) }

// Mux exposes the chi router as a handler
func (c chiRouter) Mux() http.Handler { return c.r }
