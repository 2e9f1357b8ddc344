package routes

import (
	"smartkop/auth"
	"smartkop/middleware"
	"smartkop/pipeline"
	"smartkop/ratelim"

	"github.com/julienschmidt/httprouter"
)

// AddAuthRoutes wires registration, session and password recovery handlers.
// Credential endpoints sit behind the per-IP rate limiter.
func AddAuthRoutes(router *httprouter.Router, re *pipeline.Renderer, mw *middleware.Auth, rl *ratelim.RateLimiter, h *auth.Handler) {
	router.POST("/api/v1/register", rl.Limit(re.Wrap(h.Register)))
	router.POST("/api/v1/login", rl.Limit(re.Wrap(h.Login)))
	router.GET("/api/v1/logout", re.Wrap(h.Logout))
	router.POST("/api/v1/password/forgot", rl.Limit(re.Wrap(h.ForgotPassword)))
	router.PUT("/api/v1/password/reset/:token", rl.Limit(re.Wrap(h.ResetPassword)))
}
