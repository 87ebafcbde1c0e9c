package imoveis

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes builds the /imoveis subtree. The id segment is constrained to
// digits so /imoveis/tipo/... and /imoveis/cidade/... never collide with it,
// and non-numeric ids fall through to the JSON 404.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Get("/", h.ListAll)
	r.Post("/", h.Create)
	r.Get("/{id:[0-9]+}", h.GetByID)
	r.Put("/{id:[0-9]+}", h.Update)
	r.Delete("/{id:[0-9]+}", h.Delete)
	r.Get("/tipo/{tipo}", h.ListByTipo)
	r.Get("/cidade/{cidade}", h.ListByCidade)

	return r
}

// Router assembles the full API surface: root catalogue, health check and the
// imoveis subtree. main wraps it with the process-wide middleware.
func Router(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Get("/", h.APIInfo)
	r.Get("/health", h.Health)
	r.Mount("/imoveis", h.Routes())

	return r
}
