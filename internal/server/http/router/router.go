package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/celebration-station/loyalty/internal/server/http/handlers"
	"github.com/celebration-station/loyalty/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.LoyaltyFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	authHandler := handlers.NewAuthHandler(facade)
	loyaltyHandler := handlers.NewLoyaltyHandler(facade)
	bookingHandler := handlers.NewBookingHandler(facade)

	api := engine.Group("/api")
	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired(facade))

	loyalty := authed.Group("/loyalty")
	loyalty.POST("/claim-daily", loyaltyHandler.ClaimDaily)
	loyalty.GET("/points", loyaltyHandler.Points)
	loyalty.GET("/history", loyaltyHandler.History)
	loyalty.POST("/redeem", loyaltyHandler.Redeem)

	authed.POST("/bookings", bookingHandler.Create)
	authed.GET("/bookings", bookingHandler.List)

	return engine
}
