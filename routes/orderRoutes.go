package routes

import (
	"smartkop/middleware"
	"smartkop/models"
	"smartkop/orders"
	"smartkop/pipeline"

	"github.com/julienschmidt/httprouter"
)

// AddOrderRoutes wires checkout, order history and admin fulfillment.
func AddOrderRoutes(router *httprouter.Router, re *pipeline.Renderer, mw *middleware.Auth, h *orders.Handler) {
	router.POST("/api/v1/order/new", re.Wrap(mw.Authenticate(h.NewOrder)))
	router.GET("/api/v1/order/:id", re.Wrap(mw.Authenticate(h.GetOrder)))
	router.GET("/api/v1/order/:id/invoice", re.Wrap(mw.Authenticate(h.Invoice)))
	router.GET("/api/v1/orders/me", re.Wrap(mw.Authenticate(h.MyOrders)))

	admin := func(next pipeline.Handler) httprouter.Handle {
		return re.Wrap(mw.Authenticate(mw.RequireRoles(next, models.RoleAdmin)))
	}
	router.GET("/api/v1/admin/orders", admin(h.AllOrders))
	router.PUT("/api/v1/admin/order/:id", admin(h.UpdateOrder))
	router.DELETE("/api/v1/admin/order/:id", admin(h.DeleteOrder))
}
