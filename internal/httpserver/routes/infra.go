package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/scribe/internal/httpserver/deps"
	"github.com/MrSnakeDoc/scribe/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/scribe/internal/httpserver/mw"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Get("/infra", handlers.Infra(d))
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)).Get("/healthz", handlers.Healthz(d))
}
