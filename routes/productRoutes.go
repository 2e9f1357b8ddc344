package routes

import (
	"smartkop/middleware"
	"smartkop/models"
	"smartkop/pipeline"
	"smartkop/products"

	"github.com/julienschmidt/httprouter"
)

// AddProductRoutes wires the public catalog, review and admin catalog
// management endpoints.
func AddProductRoutes(router *httprouter.Router, re *pipeline.Renderer, mw *middleware.Auth, h *products.Handler) {
	router.GET("/api/v1/products", re.Wrap(h.GetProducts))
	router.GET("/api/v1/allproducts", re.Wrap(h.GetAllProducts))
	router.GET("/api/v1/product/:id", re.Wrap(h.GetProduct))

	router.PUT("/api/v1/review", re.Wrap(mw.Authenticate(h.CreateReview)))
	router.GET("/api/v1/reviews", re.Wrap(mw.Authenticate(h.GetReviews)))
	router.DELETE("/api/v1/reviews", re.Wrap(mw.Authenticate(h.DeleteReview)))

	admin := func(next pipeline.Handler) httprouter.Handle {
		return re.Wrap(mw.Authenticate(mw.RequireRoles(next, models.RoleAdmin)))
	}
	router.GET("/api/v1/admin/products", admin(h.GetAdminProducts))
	router.POST("/api/v1/admin/product/new", admin(h.NewProduct))
	router.PUT("/api/v1/admin/product/:id", admin(h.UpdateProduct))
	router.DELETE("/api/v1/admin/product/:id", admin(h.DeleteProduct))
}
