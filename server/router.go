// Package server assembles the gin engine from its route groups.
package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"activeflow/auth"
	"activeflow/middleware"
	"activeflow/services"
)

type Options struct {
	AllowedOrigins []string
	// StaticDir is served under /static when it exists.
	StaticDir string
	Log       logrus.FieldLogger

	Auth     *auth.Handler
	Workouts *services.Workouts
}

func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.Log))
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if opts.StaticDir != "" {
		if info, err := os.Stat(opts.StaticDir); err == nil && info.IsDir() {
			r.Static("/static", opts.StaticDir)
		} else {
			opts.Log.WithField("dir", opts.StaticDir).Debug("static directory missing, /static not mounted")
		}
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to ActiveFlow"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	opts.Workouts.RegisterRoutes(api.Group("/workouts"))
	opts.Auth.RegisterRoutes(api.Group("/auth"))

	return r
}
