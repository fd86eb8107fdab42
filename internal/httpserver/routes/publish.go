package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/scribe/internal/httpserver/deps"
	"github.com/MrSnakeDoc/scribe/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/scribe/internal/httpserver/mw"
)

func init() { Register(registerPublish) }

func registerPublish(r chi.Router, d deps.Deps) {
	r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger), mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/publish", handlers.Publish(d))
}
