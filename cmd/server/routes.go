package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Nixie-Tech-LLC/fieldbook/internal/availability"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/booking"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/db"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/http/api"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/http/middleware"
	authapi "github.com/Nixie-Tech-LLC/fieldbook/internal/http/api/auth/endpoints"
	bookingapi "github.com/Nixie-Tech-LLC/fieldbook/internal/http/api/bookings/endpoints"
	fieldapi "github.com/Nixie-Tech-LLC/fieldbook/internal/http/api/fields/endpoints"
	"github.com/Nixie-Tech-LLC/fieldbook/internal/rules"
)

// Services are the engine components the routes hand requests to.
type Services struct {
	Store        db.Store
	Rules        *rules.Service
	Availability *availability.Service
	Bookings     *booking.Service
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, secretKey string, svc Services) error {
	r.Use(middleware.RequestLog())

	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
		Auth:   false,
	},
		authapi.AuthPublicModule(secretKey, svc.Store),
	); err != nil {
		return err
	}

	return api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api",
		Auth:      true,
		SecretKey: secretKey,
		Users:     svc.Store,
	},
		authapi.AuthSessionModule(secretKey, svc.Store),
		fieldapi.FieldModule(svc.Rules, svc.Availability),
		bookingapi.BookingModule(svc.Bookings),
	)
}
