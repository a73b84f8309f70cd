package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pattadon/shopstock-backend/api/controllers"
	"github.com/pattadon/shopstock-backend/api/middleware"
	"github.com/pattadon/shopstock-backend/internal/alerts"
	"github.com/pattadon/shopstock-backend/internal/inventory"
	"github.com/pattadon/shopstock-backend/internal/media"
	"github.com/pattadon/shopstock-backend/internal/orders"
	"github.com/pattadon/shopstock-backend/internal/overview"
	"github.com/pattadon/shopstock-backend/internal/picking"
	"github.com/pattadon/shopstock-backend/internal/products"
	"github.com/pattadon/shopstock-backend/internal/users"
	"github.com/pattadon/shopstock-backend/pkg/config"
	"github.com/pattadon/shopstock-backend/pkg/enums"
	"github.com/pattadon/shopstock-backend/pkg/logger"
)

// Deps carries everything the HTTP surface needs. All services are
// required except the pingers, which health checks skip when nil.
type Deps struct {
	DB    controllers.Pinger
	Cache controllers.Pinger

	Users     users.Service
	Products  products.Service
	Inventory inventory.Service
	Orders    orders.Service
	Picking   picking.Service
	Alerts    alerts.Service
	Media     media.Service
	Overview  overview.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Cache, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(deps.Users, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/auth/me", controllers.Me(deps.Users, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Get("/{productID}", controllers.GetProduct(deps.Products, logg))
			r.Put("/{productID}", controllers.UpdateProduct(deps.Products, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(deps.Products, logg))
			r.Post("/{productID}/stock", controllers.IncrementStock(deps.Products, logg))
			r.Get("/{productID}/history", controllers.ProductStockHistory(deps.Inventory, logg))
		})

		r.Route("/stock-history", func(r chi.Router) {
			r.Get("/", controllers.ListStockHistory(deps.Inventory, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Post("/", controllers.CreateOrder(deps.Orders, logg))
			r.Get("/unassigned", controllers.ListUnassignedOrders(deps.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(deps.Orders, logg))
		})

		r.Route("/picking", func(r chi.Router) {
			r.Get("/", controllers.ListPickingRecords(deps.Picking, logg))
			r.Post("/", controllers.CreatePickingRecord(deps.Picking, logg))
			r.Get("/mine", controllers.ListMyPickingRecords(deps.Picking, logg))
			r.Get("/{recordID}", controllers.GetPickingRecord(deps.Picking, logg))
			r.Post("/{recordID}/shipment", controllers.CommitShipment(deps.Picking, logg))
			r.Post("/{recordID}/delivered", controllers.ConfirmDelivery(deps.Picking, logg))
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", controllers.StockAlerts(deps.Alerts, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Alerts, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(deps.Alerts, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(deps.Alerts, logg))
		})

		r.Route("/media", func(r chi.Router) {
			r.Post("/products", controllers.UploadProductImage(deps.Media, logg))
			r.Post("/slips", controllers.UploadSlip(deps.Media, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))
			r.Get("/overview", controllers.OverviewStats(deps.Overview, logg))
			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.ListUsers(deps.Users, logg))
				r.Post("/", controllers.Register(deps.Users, logg))
				r.Put("/{userID}/role", controllers.ChangeUserRole(deps.Users, logg))
				r.Put("/{userID}/active", controllers.SetUserActive(deps.Users, logg))
			})
		})
	})

	return r
}
