package http

import "net/http"

// Handler is the plain handler func routes take
type Handler = func(http.ResponseWriter, *http.Request)

// Router is what modules mount against. Verb methods are sugar over Method.
type Router interface {
	Method(method, path string, h Handler)
	Get(path string, h Handler)
	Post(path string, h Handler)
	Put(path string, h Handler)
	Delete(path string, h Handler)

	// Handle matches every method on path
	Handle(path string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Group(fn func(Router))
	Route(pattern string, fn func(Router))

	// NotFound and MethodNotAllowed replace the fallback replies of this
	// router and its subrouters
	NotFound(h Handler)
	MethodNotAllowed(h Handler)

	Mux() http.Handler
}
