package routes

import (
	"smartkop/admin"
	"smartkop/middleware"
	"smartkop/models"
	"smartkop/pipeline"

	"github.com/julienschmidt/httprouter"
)

// AddAdminRoutes wires user management, admin role only.
func AddAdminRoutes(router *httprouter.Router, re *pipeline.Renderer, mw *middleware.Auth, h *admin.Handler) {
	gate := func(next pipeline.Handler) httprouter.Handle {
		return re.Wrap(mw.Authenticate(mw.RequireRoles(next, models.RoleAdmin)))
	}
	router.GET("/api/v1/admin/users", gate(h.AllUsers))
	router.GET("/api/v1/admin/user/:id", gate(h.GetUser))
	router.PUT("/api/v1/admin/user/:id", gate(h.UpdateUser))
	router.DELETE("/api/v1/admin/user/:id", gate(h.DeleteUser))
}
