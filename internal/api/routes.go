package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ridereservation/internal/api/handlers"
	"ridereservation/internal/api/middleware"
)

type Router struct {
	customerHandler *handlers.CustomerHandler
	driverHandler   *handlers.DriverHandler
	logger          *slog.Logger
	registry        *prometheus.Registry
}

func NewRouter(
	customerHandler *handlers.CustomerHandler,
	driverHandler *handlers.DriverHandler,
	logger *slog.Logger,
	registry *prometheus.Registry,
) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		customerHandler: customerHandler,
		driverHandler:   driverHandler,
		logger:          logger,
		registry:        registry,
	}
}

func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Tracing(), middleware.Logging(r.logger))
	if r.registry != nil {
		engine.Use(middleware.Metrics(r.registry))
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))
	}

	// Health check endpoint
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Registration is unauthenticated: it is how callers get an id.
	engine.POST("/customers", r.customerHandler.Register)
	engine.POST("/drivers", r.driverHandler.Register)

	customerRoutes := engine.Group("/customer")
	customerRoutes.Use(middleware.MockAuth(middleware.UserTypeCustomer))
	{
		customerRoutes.POST("/reservations", r.customerHandler.CreateReservation)
		customerRoutes.GET("/reservations", r.customerHandler.ListReservations)
		customerRoutes.GET("/reservations/:id", r.customerHandler.GetReservation)
		customerRoutes.PATCH("/reservations/:id/cancel", r.customerHandler.CancelReservation)
	}

	driverRoutes := engine.Group("/driver")
	driverRoutes.Use(middleware.MockAuth(middleware.UserTypeDriver))
	{
		driverRoutes.GET("/reservations", r.driverHandler.ListReservations)
		driverRoutes.GET("/reservations/waiting", r.driverHandler.ListWaiting)
		driverRoutes.PATCH("/reservations/:id/take", r.driverHandler.Take)
		driverRoutes.PATCH("/reservations/:id/on-the-way", r.driverHandler.OnTheWay)
		driverRoutes.PATCH("/reservations/:id/arrived", r.driverHandler.Arrived)
		driverRoutes.PATCH("/reservations/:id/cancel", r.driverHandler.Cancel)
	}
}
