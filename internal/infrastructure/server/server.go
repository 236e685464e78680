package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/goaltracker/core/internal/adapters/filestore"
	"github.com/goaltracker/core/internal/adapters/grok"
	httpHandlers "github.com/goaltracker/core/internal/adapters/http"
	"github.com/goaltracker/core/internal/adapters/repository"
	"github.com/goaltracker/core/internal/application/services"
	"github.com/goaltracker/core/internal/infrastructure/config"
	"github.com/goaltracker/core/internal/infrastructure/database"
	"github.com/goaltracker/core/internal/infrastructure/logger"
	"github.com/goaltracker/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	db     *database.DB
	store  *filestore.Store
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance. The db argument is nil when the
// file storage driver is configured; the file store is built here.
func New(cfg *config.Config, db *database.DB, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	// Set custom validator
	e.Validator = &CustomValidator{validator: validator.New()}

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true

	// Custom error handler
	e.HTTPErrorHandler = customErrorHandler(appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		db:     db,
	}

	// Select the storage backend
	var (
		userRepo ports.UserRepository
		goalRepo ports.GoalRepository
		taskRepo ports.TaskRepository
	)
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if db == nil {
			return nil, fmt.Errorf("postgres driver selected but no database connection provided")
		}
		userRepo = repository.NewUserRepository(db.DB)
		goalRepo = repository.NewGoalRepository(db.DB)
		taskRepo = repository.NewTaskRepository(db)
	case config.DriverFile:
		store, err := filestore.New(cfg.Storage.DataDir, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to open file store: %w", err)
		}
		server.store = store
		userRepo = store.Users()
		goalRepo = store.Goals()
		taskRepo = store.Tasks()
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	// Initialize services
	suggester := grok.NewClient(cfg.Grok, appLogger)
	authService := services.NewAuthService(userRepo, cfg.JWT, appLogger)
	userService := services.NewUserService(userRepo, appLogger)
	goalService := services.NewGoalService(goalRepo, appLogger)
	taskService := services.NewTaskService(taskRepo, goalRepo, userRepo, suggester, appLogger)
	statsService := services.NewStatsService(taskRepo, goalRepo, appLogger)
	dataService := services.NewDataService(userRepo, goalRepo, taskRepo, appLogger)

	// Initialize handlers
	authHandler := httpHandlers.NewAuthHandler(authService, cfg.JWT, appLogger)
	userHandler := httpHandlers.NewUserHandler(userService, appLogger)
	goalHandler := httpHandlers.NewGoalHandler(goalService, appLogger)
	taskHandler := httpHandlers.NewTaskHandler(taskService, appLogger)
	statsHandler := httpHandlers.NewStatsHandler(statsService, appLogger)
	dataHandler := httpHandlers.NewDataHandler(dataService, appLogger)

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes(authHandler, userHandler, goalHandler, taskHandler, statsHandler, dataHandler, authService)

	// Setup metrics
	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.echo.Use(middleware.Recover())

	// Logger middleware
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	// CORS middleware
	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods:     []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
		AllowCredentials: true,
	}))

	// Rate limiting middleware
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	// Security headers
	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
	}))

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Timeout middleware
	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(authHandler *httpHandlers.AuthHandler, userHandler *httpHandlers.UserHandler, goalHandler *httpHandlers.GoalHandler, taskHandler *httpHandlers.TaskHandler, statsHandler *httpHandlers.StatsHandler, dataHandler *httpHandlers.DataHandler, authService *services.AuthService) {
	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	api := s.echo.Group("/api")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authHandler.Me, s.authMiddleware(authService))
	authGroup.POST("/logout", authHandler.Logout, s.authMiddleware(authService))

	// Account settings (authenticated)
	userGroup := api.Group("/user", s.authMiddleware(authService))
	userGroup.PUT("/password", userHandler.ChangePassword)
	userGroup.PUT("/grok-api", userHandler.UpdateGrokKey)

	// Goal routes (authenticated)
	goalGroup := api.Group("/goals", s.authMiddleware(authService))
	goalGroup.GET("", goalHandler.List)
	goalGroup.POST("", goalHandler.Create)
	goalGroup.GET("/:id", goalHandler.Get)
	goalGroup.PUT("/:id", goalHandler.Update)
	goalGroup.DELETE("/:id", goalHandler.Delete)

	// Task routes (authenticated)
	taskGroup := api.Group("/tasks", s.authMiddleware(authService))
	taskGroup.GET("", taskHandler.List)
	taskGroup.POST("", taskHandler.Create)
	taskGroup.POST("/generate", taskHandler.Generate)
	taskGroup.POST("/finalize-daily-tasks", taskHandler.Finalize)
	taskGroup.DELETE("/delete-all-for-goal", taskHandler.DeleteAllForGoal)
	taskGroup.DELETE("/delete-all-instances", taskHandler.DeleteInstances)
	taskGroup.PUT("/update-all-instances", taskHandler.UpdateInstances)
	taskGroup.GET("/:id", taskHandler.Get)
	taskGroup.PUT("/:id", taskHandler.Update)
	taskGroup.PATCH("/:id", taskHandler.Patch)
	taskGroup.DELETE("/:id", taskHandler.Delete)

	// Aggregates (authenticated)
	api.GET("/points", statsHandler.Points, s.authMiddleware(authService))
	api.GET("/stats", statsHandler.Stats, s.authMiddleware(authService))

	// Backup (authenticated)
	dataGroup := api.Group("/data", s.authMiddleware(authService))
	dataGroup.GET("/export", dataHandler.Export)
	dataGroup.POST("/import", dataHandler.Import)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requestsTotal, requestDuration)

	// Custom metrics middleware
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	// Metrics endpoint
	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	switch s.config.Storage.Driver {
	case config.DriverPostgres:
		if err := s.db.HealthCheck(); err != nil {
			status = "error"
			checks["database"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status": "ok",
				"stats":  s.db.GetConnectionInfo(),
			}
		}
	case config.DriverFile:
		if err := s.store.HealthCheck(); err != nil {
			status = "error"
			checks["filestore"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		} else {
			checks["filestore"] = map[string]interface{}{
				"status":   "ok",
				"data_dir": s.config.Storage.DataDir,
			}
		}
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if s.config.Storage.Driver == config.DriverPostgres {
		if err := s.db.Ping(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "database_not_ready",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Info("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Error("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Error("Error sending response", "error", err)
			}
		}
	}
}
