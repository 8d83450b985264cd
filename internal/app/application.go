package app

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ai-forum-web/internal/config"
	"ai-forum-web/internal/handlers"
	"ai-forum-web/internal/middleware"
	"ai-forum-web/internal/router"
	"ai-forum-web/internal/service"
	"ai-forum-web/pkg/cache"
	"ai-forum-web/pkg/logger"
	"ai-forum-web/pkg/navigation"
	"ai-forum-web/pkg/utils"
	"ai-forum-web/web"
)

type Options struct {
	// Files holds the templates directory and is web.Files() by default.
	Files        fs.FS
	TemplatesDir string
	// Static holds the assets served under /static and is web.Static() by default.
	Static fs.FS
	// Classifier replaces the HTTP classifier built from the configuration.
	Classifier service.Classifier
	// SkipNavigationCheck disables the startup check of navigation links.
	SkipNavigationCheck bool
}

type Application struct {
	cfg     *config.Config
	options Options

	cache      *cache.Cache
	rateLimits *middleware.RateLimitManager
	registry   *prometheus.Registry
	metrics    *middleware.Metrics

	services serviceContainer
	handlers handlerContainer

	templates *template.Template
	router    *gin.Engine
	server    *http.Server
}

type serviceContainer struct {
	Toxicity *service.ToxicityService
}

type handlerContainer struct {
	Template   *handlers.TemplateHandler
	Navigation *handlers.NavigationHandler
	Predict    *handlers.PredictHandler
}

func New(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if opts.Files == nil {
		opts.Files = web.Files()
	}
	if opts.TemplatesDir == "" {
		opts.TemplatesDir = web.TemplatesDir
	}
	if opts.Static == nil {
		opts.Static = web.Static()
	}

	app := &Application{
		cfg:      cfg,
		options:  opts,
		registry: prometheus.NewRegistry(),
	}

	if err := app.initCache(); err != nil {
		return nil, err
	}

	app.rateLimits = middleware.NewRateLimitManager(context.Background())
	app.initServices()

	if err := app.initHandlers(); err != nil {
		app.rateLimits.Shutdown()
		return nil, err
	}

	app.initRouter()

	if !opts.SkipNavigationCheck {
		if err := app.VerifyNavigation(context.Background()); err != nil {
			logger.Warn("Navigation check reported unreachable destinations", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	app.server = &http.Server{
		Addr:           cfg.Address(),
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   cfg.ClassifierTimeout + 10*time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	var errs []error

	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if a.rateLimits != nil {
		_ = a.rateLimits.Shutdown()
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	return errors.Join(errs...)
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

// VerifyNavigation activates every link of the navigation bar against the
// router and reports the destinations that do not render. The requests are
// not rate limited and do not show up in request metrics.
func (a *Application) VerifyNavigation(ctx context.Context) error {
	ctx = middleware.WithoutAccounting(ctx)
	navigator := router.NewNavigator(a.router)

	var errs []error
	for _, link := range navigation.Navbar().LinkNodes() {
		if err := navigation.Activate(ctx, navigator, link); err != nil {
			errs = append(errs, err)
			continue
		}
		logger.Debug("Navigation destination reachable", map[string]interface{}{"path": link.Path})
	}

	return errors.Join(errs...)
}

func (a *Application) initCache() error {
	if !a.cfg.EnableRedis {
		c, _ := cache.NewCache("", false)
		a.cache = c
		logger.Info("Prediction cache disabled", nil)
		return nil
	}

	c, err := cache.NewCache(a.cfg.RedisURL, true)
	if err != nil {
		logger.Error(err, "Failed to connect to Redis, continuing without cache", map[string]interface{}{
			"addr": a.cfg.RedisURL,
		})
		c, _ = cache.NewCache("", false)
	}
	a.cache = c
	return nil
}

func (a *Application) initServices() {
	classifier := a.options.Classifier
	if classifier == nil {
		classifier = service.NewHTTPClassifier(service.HTTPClassifierOptions{
			Endpoint: a.cfg.ClassifierURL,
			Timeout:  a.cfg.ClassifierTimeout,
		})
	}

	a.services.Toxicity = service.NewToxicityService(classifier, a.cache, service.ToxicityOptions{
		Threshold:     a.cfg.ToxicityThreshold,
		MaxTextLength: a.cfg.MaxTextLength,
		CacheTTL:      a.cfg.CacheTTL,
	})
}

func (a *Application) initHandlers() error {
	templates, err := utils.LoadTemplates(a.options.Files, a.options.TemplatesDir, utils.GetTemplateFuncs(web.AssetVersion))
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	a.templates = templates
	logger.Info("Templates loaded successfully", map[string]interface{}{
		"templates": strings.TrimPrefix(templates.DefinedTemplates(), "; defined templates are: "),
	})

	templateHandler, err := handlers.NewTemplateHandler(a.services.Toxicity, a.cfg, templates)
	if err != nil {
		return fmt.Errorf("failed to initialize template handler: %w", err)
	}

	a.handlers = handlerContainer{
		Template:   templateHandler,
		Navigation: handlers.NewNavigationHandler(),
		Predict:    handlers.NewPredictHandler(a.services.Toxicity),
	}
	return nil
}

func (a *Application) initRouter() {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(logger.GinLogger(navigation.PartialHeader))
	if a.cfg.EnableMetrics {
		a.metrics = middleware.NewMetrics(a.registry)
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		r.Use(a.metrics.Middleware())
	}
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RateLimitMiddleware(a.rateLimits, a.cfg))

	if a.cfg.EnableMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	}

	r.StaticFS("/static", http.FS(a.options.Static))

	r.GET("/", a.handlers.Template.RenderIndex)
	r.GET("/login", a.handlers.Template.RenderLogin)
	r.GET("/register", a.handlers.Template.RenderRegister)
	dashboard := r.Group("/dashboard", middleware.RobotsTagMiddleware())
	{
		dashboard.GET("", a.handlers.Template.RenderDashboard)
		dashboard.POST("", a.handlers.Template.CheckToxicity)
	}

	v1 := r.Group("/api/v1", middleware.RobotsTagMiddleware())
	v1.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	{
		v1.GET("/health", a.handlers.Predict.Health)
		v1.GET("/navigation", a.handlers.Navigation.List)
		v1.POST("/predict", a.handlers.Predict.Predict)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Route not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		a.handlers.Template.RenderNotFound(c)
	})

	a.router = r
}
