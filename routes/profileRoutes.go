package routes

import (
	"smartkop/middleware"
	"smartkop/pipeline"
	"smartkop/profile"

	"github.com/julienschmidt/httprouter"
)

// AddProfileRoutes wires the authenticated self-service endpoints.
func AddProfileRoutes(router *httprouter.Router, re *pipeline.Renderer, mw *middleware.Auth, h *profile.Handler) {
	router.GET("/api/v1/me", re.Wrap(mw.Authenticate(h.Me)))
	router.PUT("/api/v1/password/update", re.Wrap(mw.Authenticate(h.UpdatePassword)))
	router.PUT("/api/v1/me/update", re.Wrap(mw.Authenticate(h.UpdateProfile)))
	router.PUT("/api/v1/me/update/cart", re.Wrap(mw.Authenticate(h.UpdateCart)))
}
