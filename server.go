package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jahongirdev1/med333-sub000/config"
	"github.com/jahongirdev1/med333-sub000/middlewares"
	"github.com/jahongirdev1/med333-sub000/models"
	"github.com/jahongirdev1/med333-sub000/remote"
	"github.com/jahongirdev1/med333-sub000/utils"
	"github.com/jahongirdev1/med333-sub000/workflow"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

type app struct {
	client    *remote.Client
	sessions  *workflow.SessionManager
	snapshots *models.SnapshotRegistry
}

func main() {
	logger := config.GetLogger()

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	if err := registerValidations(); err != nil {
		logger.WithFields(logrus.Fields{"field": "validator"}).Panic(err.Error())
	}

	a := &app{
		client:    remote.NewClient(),
		sessions:  workflow.NewSessionManager(models.NewSessionStore(), remote.NewClient(), logger),
		snapshots: models.NewSnapshotRegistry(),
	}

	r := gin.New()

	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist; elsewhere allow all.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.POST("/login", a.loginHandler())

	auth := r.Group("/")
	auth.Use(middlewares.SessionMiddleware(a.sessions.Store()))
	{
		auth.POST("/logout", a.logoutHandler())
		auth.GET("/session", a.sessionHandler())
		auth.POST("/session/heartbeat", a.heartbeatHandler())

		auth.GET("/items", a.listItemsHandler())
		auth.POST("/items", a.createItemHandler())
		auth.PUT("/items/:id", a.updateItemHandler())
		auth.DELETE("/items/:id", a.deleteItemHandler())

		auth.POST("/intake", a.intakeHandler())
		auth.POST("/dispense", a.dispenseHandler())

		auth.GET("/shipments", a.listShipmentsHandler())
		auth.POST("/shipments", a.createShipmentHandler())
		auth.POST("/shipments/:id/:action", a.shipmentActionHandler())
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Redis is optional; connect after the listener is up so the container
	// starts answering health checks immediately.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_REDIS")), "true") {
		go config.ConnectRedisWithRetry()
	}

	// Session sweeper: tears down sessions whose sliding window ran out.
	sweeperCtx, cancelSweeper := context.WithCancel(context.Background())
	defer cancelSweeper()
	go a.sessions.Run(sweeperCtx)

	logger.WithFields(logrus.Fields{"field": "http"}).Info("listening on :" + port)

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	// Stop the sweeper first so no stale tick fires while draining.
	cancelSweeper()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

func registerValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	return v.RegisterValidation("itemtype", func(fl validator.FieldLevel) bool {
		return models.ItemType(fl.Field().String()).IsValid()
	})
}

// customErrorLogger logs only requests that collected errors.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.String())
		}
	}
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
