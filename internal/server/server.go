package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"anoa.com/weddingsalon/internal/config"
	"anoa.com/weddingsalon/internal/middleware"
	"anoa.com/weddingsalon/pkg/response"
	"anoa.com/weddingsalon/pkg/storage"
	"anoa.com/weddingsalon/pkg/validator"

	adminHttp "anoa.com/weddingsalon/internal/modules/admin/delivery/http"
	adminService "anoa.com/weddingsalon/internal/modules/admin/service"

	designerHttp "anoa.com/weddingsalon/internal/modules/designer/delivery/http"
	designerRepo "anoa.com/weddingsalon/internal/modules/designer/repository"
	designerService "anoa.com/weddingsalon/internal/modules/designer/service"

	dressHttp "anoa.com/weddingsalon/internal/modules/dress/delivery/http"
	dressRepo "anoa.com/weddingsalon/internal/modules/dress/repository"
	dressService "anoa.com/weddingsalon/internal/modules/dress/service"

	notiHttp "anoa.com/weddingsalon/internal/modules/notification/delivery/http"
	notifService "anoa.com/weddingsalon/internal/modules/notification/service"

	searchService "anoa.com/weddingsalon/internal/modules/search/service"

	statHttp "anoa.com/weddingsalon/internal/modules/stat/delivery/http"
	statService "anoa.com/weddingsalon/internal/modules/stat/service"

	userHttp "anoa.com/weddingsalon/internal/modules/user/delivery/http"
	userRepo "anoa.com/weddingsalon/internal/modules/user/repository"
	userService "anoa.com/weddingsalon/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Deps are the external services the server talks to. Everything except DB
// is optional.
type Deps struct {
	DB           *gorm.DB
	Redis        *redis.Client
	Meili        meilisearch.ServiceManager
	ImageStorage storage.ImageStorage
}

type Server struct {
	engine *gin.Engine
	cfg    *config.Config
}

func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	if err := validator.RegisterRules(); err != nil {
		return nil, err
	}

	var index searchService.DressIndex
	if deps.Meili != nil {
		index = searchService.NewMeiliSearchService(deps.Meili)
	}

	events := notifService.NewPublisher(deps.Redis)

	userRepository := userRepo.NewUserRepository(deps.DB)
	authSvc := userService.NewAuthService(userRepository, deps.Redis, userService.Options{
		Secret:        cfg.JWTSecret,
		TokenTTL:      cfg.JWTTTL,
		RegisterLimit: cfg.RateLimitRegister,
	})
	authHandler := userHttp.NewAuthHandler(authSvc, userHttp.CookieOptions{
		Name:   cfg.SessionCookie,
		TTL:    cfg.JWTTTL,
		Secure: cfg.IsProduction(),
	})

	adminSvc := adminService.NewAdminService(userRepository)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	designerRepository := designerRepo.NewDesignerRepository(deps.DB)
	dressRepository := dressRepo.NewDressRepository(deps.DB)

	statSvc := statService.NewStatService(dressRepository, deps.Redis, cfg.StatsCacheTTL)
	statHandler := statHttp.NewStatHandler(statSvc)

	designerSvc := designerService.NewDesignerService(designerRepository, index, deps.ImageStorage, statSvc, events)
	designerHandler := designerHttp.NewDesignerHandler(designerSvc)

	dressSvc := dressService.NewDressService(dressRepository, designerRepository, index, deps.ImageStorage, statSvc, events)
	dressHandler := dressHttp.NewDressHandler(dressSvc, designerSvc)

	feedHandler := notiHttp.NewInventoryFeedHandler(deps.Redis, cfg.AllowedOrigins)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(response.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: accessLogFormatter,
		SkipPaths: []string{"/health"},
	}))

	auth := middleware.NewAuthMiddleware(authSvc, userRepository, cfg.SessionCookie)
	router.Use(auth.Authenticate())

	// Public routes
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	router.GET("/", home)
	router.GET("/about", about)
	router.GET("/register", authHandler.RegisterForm)
	router.POST("/register", authHandler.Register)
	router.POST("/login", authHandler.Login)
	router.POST("/logout", authHandler.Logout)

	// Browser routes
	web := router.Group("")
	web.Use(auth.RequireLogin())
	{
		browse := web.Group("")
		browse.Use(auth.RequireRoles(middleware.AnyRole...))
		{
			browse.GET("/dresses", dressHandler.Browse)
			browse.GET("/histogram", statHandler.GetDressStatistics)
		}

		staff := web.Group("")
		staff.Use(auth.RequireRoles(middleware.Staff...))
		{
			staff.POST("/save", dressHandler.SaveForm)
			staff.POST("/update", dressHandler.UpdateForm)
			staff.POST("/delete", dressHandler.DeleteForm)

			staff.GET("/designers", designerHandler.ListDesigners)
			staff.POST("/designers/save", designerHandler.SaveDesigner)
			staff.POST("/designers/update", designerHandler.UpdateDesigner)
			staff.POST("/designers/delete", designerHandler.DeleteDesigner)
		}

		admins := web.Group("")
		admins.Use(auth.RequireRoles(middleware.Admins...))
		{
			admins.GET("/user-management", adminHandler.GetAllUsers)
			admins.POST("/assign-role", adminHandler.AssignRole)
		}
	}

	api := router.Group("/api")

	// Read-only catalogue is public
	api.GET("/dresses", dressHandler.ListDresses)
	api.GET("/dresses/search", dressHandler.SearchDresses)
	api.GET("/dresses/:id", dressHandler.GetDress)
	api.GET("/designers", designerHandler.ListDesigners)
	api.GET("/designers/:id", designerHandler.GetDesigner)

	protected := api.Group("")
	protected.Use(auth.RequireAuth())
	{
		protected.GET("/me", authHandler.Me)
		protected.GET("/stats", statHandler.GetDressStatistics)

		staff := protected.Group("")
		staff.Use(auth.RequireRoles(middleware.Staff...))
		{
			staff.POST("/dresses", dressHandler.CreateDress)
			staff.PUT("/dresses/:id", dressHandler.UpdateDress)
			staff.DELETE("/dresses/:id", dressHandler.DeleteDress)
			staff.POST("/dresses/:id/photo", dressHandler.UploadPhoto)
			staff.GET("/inventory/ws", feedHandler.HandleWebSocket)
		}
	}

	return &Server{engine: router, cfg: cfg}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func home(c *gin.Context) {
	body := gin.H{
		"name":     "Wedding Salon",
		"login":    "/login",
		"register": "/register",
	}
	if identity, err := response.GetIdentity(c); err == nil {
		body["user"] = identity
	}
	c.JSON(http.StatusOK, body)
}

func about(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Wedding Salon",
		"description": "Catalogue of wedding dresses and their designers.",
	})
}

func setupCORS(router *gin.Engine, origins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

// accessLogFormatter is gin's default line with session tokens masked.
func accessLogFormatter(param gin.LogFormatterParams) string {
	if param.Latency > time.Minute {
		param.Latency = param.Latency.Truncate(time.Second)
	}
	return fmt.Sprintf("[GIN] %v | %3d | %13v | %15s | %-7s %#v\n%s",
		param.TimeStamp.Format("2006/01/02 - 15:04:05"),
		param.StatusCode,
		param.Latency,
		param.ClientIP,
		param.Method,
		redactToken(param.Path),
		param.ErrorMessage,
	)
}

func redactToken(path string) string {
	base, rawQuery, found := strings.Cut(path, "?")
	if !found {
		return path
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return base
	}
	if !query.Has("token") {
		return path
	}
	query.Set("token", "REDACTED")
	return base + "?" + query.Encode()
}
