// Package routes binds shopdesk controllers to named /api routes.
package routes

import (
	"github.com/shashiranjanraj/shopdesk/app/controllers"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
	"github.com/shashiranjanraj/shopdesk/pkg/middleware"
	"github.com/shashiranjanraj/shopdesk/pkg/router"
	"github.com/shashiranjanraj/shopdesk/pkg/ws"
)

func RegisterAPI(r *router.Router, svc *services.Services, hub *ws.Hub) {
	authController := controllers.NewAuthController(svc.Auth)
	productController := controllers.NewProductController(svc.Products)
	saleController := controllers.NewSaleController(svc.Sales)
	shopController := controllers.NewShopController(svc.Shops)
	teamController := controllers.NewTeamController(svc.Team)
	reportController := controllers.NewReportController(svc.Reports)
	feedController := controllers.NewFeedController(hub)

	api := r.Group("/api")
	api.Post("/auth/google", "auth.google", ctx.Wrap(authController.Google))
	api.Post("/auth/register", "auth.register", ctx.Wrap(authController.Register))
	api.Post("/auth/login", "auth.login", ctx.Wrap(authController.Login))

	protected := api.Group("", middleware.Auth(svc.Auth.Resolve))
	protected.Post("/auth/logout", "auth.logout", ctx.Wrap(authController.Logout))
	protected.Get("/auth/user", "auth.user", ctx.Wrap(authController.User))

	products := protected.Group("/products")
	products.Get("/", "products.index", ctx.Wrap(productController.Index))
	products.Post("/", "products.store", ctx.Wrap(productController.Store))
	products.Get("/{id}", "products.show", ctx.Wrap(productController.Show))
	products.Put("/{id}", "products.update", ctx.Wrap(productController.Update))
	products.Delete("/{id}", "products.destroy", ctx.Wrap(productController.Destroy))
	products.Post("/{id}/image", "products.image", ctx.Wrap(productController.Image))

	sales := protected.Group("/sales")
	sales.Get("/", "sales.index", ctx.Wrap(saleController.Index))
	sales.Post("/", "sales.store", ctx.Wrap(saleController.Store))
	sales.Get("/{id}", "sales.show", ctx.Wrap(saleController.Show))
	sales.Put("/{id}", "sales.update", ctx.Wrap(saleController.Update))
	sales.Delete("/{id}", "sales.destroy", ctx.Wrap(saleController.Destroy))

	shops := protected.Group("/shops")
	shops.Get("/", "shops.index", ctx.Wrap(shopController.Index))
	shops.Post("/", "shops.store", ctx.Wrap(shopController.Store))
	shops.Get("/{id}", "shops.show", ctx.Wrap(shopController.Show))
	shops.Put("/{id}", "shops.update", ctx.Wrap(shopController.Update))
	shops.Delete("/{id}", "shops.destroy", ctx.Wrap(shopController.Destroy))
	shops.Get("/{id}/statistics", "shops.statistics", ctx.Wrap(shopController.Statistics))
	shops.Post("/{id}/logo", "shops.logo", ctx.Wrap(shopController.Logo))

	team := protected.Group("/team")
	team.Get("/", "team.index", ctx.Wrap(teamController.Index))
	team.Post("/", "team.store", ctx.Wrap(teamController.Store))
	team.Get("/{id}", "team.show", ctx.Wrap(teamController.Show))
	team.Put("/{id}", "team.update", ctx.Wrap(teamController.Update))
	team.Delete("/{id}", "team.destroy", ctx.Wrap(teamController.Destroy))
	team.Patch("/{id}/toggle-status", "team.toggle", ctx.Wrap(teamController.ToggleStatus))

	protected.Get("/dashboard", "dashboard", ctx.Wrap(reportController.Dashboard))
	protected.Get("/reports/sales", "reports.sales", ctx.Wrap(reportController.Sales))
	protected.Get("/ws/sales", "ws.sales", ctx.Wrap(feedController.Sales))
}
