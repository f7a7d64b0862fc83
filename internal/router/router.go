package router

import (
	"net/http"
	"time"

	"github.com/Abhigulve/mid-day-meal/internal/auth"
	"github.com/Abhigulve/mid-day-meal/internal/catalog"
	"github.com/Abhigulve/mid-day-meal/internal/mealrecord"
	"github.com/Abhigulve/mid-day-meal/internal/menu"
	"github.com/Abhigulve/mid-day-meal/internal/metrics"
	"github.com/Abhigulve/mid-day-meal/internal/middleware"
	"github.com/Abhigulve/mid-day-meal/internal/report"
	"github.com/Abhigulve/mid-day-meal/internal/school"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services is everything the HTTP layer serves.
type Services struct {
	Auth    *auth.Service
	Tokens  *auth.TokenIssuer
	Schools *school.Service
	Catalog *catalog.Service
	Menus   *menu.Service
	Ledger  *mealrecord.Service
	Reports *report.Service
	Metrics *metrics.Metrics

	CORSOrigins []string
}

// Roles allowed to write meal records.
var recordWriters = []auth.Role{auth.Admin, auth.SchoolAdmin, auth.Teacher, auth.Cook}

func NewRouter(s Services) *gin.Engine {
	r := gin.New()

	corsConfig := cors.Config{
		AllowOrigins:     s.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(s.CORSOrigins) == 0 {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}

	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(s.Metrics),
		cors.New(corsConfig),
	)

	// ───────────────────────── HEALTH + METRICS ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))

	// ───────────────────────── AUTH ─────────────────────────
	authHandler := auth.NewHandler(s.Auth)
	r.POST("/auth/login", authHandler.Login)

	authed := r.Group("")
	authed.Use(middleware.AuthMiddleware(s.Tokens))

	adminOnly := middleware.RequireRole(auth.Admin)

	authed.GET("/auth/me", authHandler.Me)

	users := authed.Group("/users", adminOnly)
	{
		users.POST("", authHandler.CreateUser)
		users.GET("", authHandler.ListUsers)
		users.GET("/:id", authHandler.GetUser)
		users.DELETE("/:id", authHandler.DeactivateUser)
	}

	// ───────────────────────── REFERENCE DATA ─────────────────────────
	school.NewHandler(s.Schools).Register(
		authed.Group("/schools"),
		authed.Group("/schools", adminOnly),
	)
	catalog.NewHandler(s.Catalog).Register(
		authed.Group("/food-items"),
		authed.Group("/food-items", adminOnly),
	)

	// ───────────────────────── MENUS ─────────────────────────
	menu.NewHandler(s.Menus).Register(
		authed.Group("/menus"),
		authed.Group("/menus", adminOnly),
	)

	// ───────────────────────── LEDGER ─────────────────────────
	mealrecord.NewHandler(s.Ledger).Register(
		authed.Group("/meal-records"),
		authed.Group("/meal-records", middleware.RequireRole(recordWriters...)),
		authed.Group("/meal-records", adminOnly),
	)

	// ───────────────────────── REPORTS ─────────────────────────
	report.NewHandler(s.Reports).Register(
		authed.Group("/reports"),
		authed.Group("/dashboard"),
	)

	return r
}
