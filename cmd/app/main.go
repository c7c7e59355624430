package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"travelbuddy/cmd/fx/backend_fx"
	"travelbuddy/cmd/fx/config_fx"
	"travelbuddy/cmd/fx/controllers_fx"
	"travelbuddy/cmd/fx/memcache_fx"
	"travelbuddy/cmd/fx/travel_fx"
	"travelbuddy/cmd/fx/wizard_fx"
	"travelbuddy/internal/api/controllers"
	"travelbuddy/internal/infra"
	"travelbuddy/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		memcache_fx.Module,
		backend_fx.Module,
		travel_fx.Module,
		wizard_fx.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg infra.Config, logger *zap.Logger) {
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("Starting HTTP server", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("Failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}

type RouterParams struct {
	fx.In

	Config              infra.Config
	Logger              *zap.Logger
	WizardController    *controllers.WizardController
	ItineraryController *controllers.ItineraryController
	ExportController    *controllers.ExportController
	HealthController    *controllers.HealthController
}

func ProvideRouter(p RouterParams) *gin.Engine {
	if !p.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Logger))
	r.Use(middleware.CORSMiddleware(p.Config.CORSAllowedOrigins))

	RegisterRoutes(r, p.WizardController, p.ItineraryController, p.ExportController, p.HealthController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	wizardController *controllers.WizardController,
	itineraryController *controllers.ItineraryController,
	exportController *controllers.ExportController,
	healthController *controllers.HealthController) {

	r.GET("/healthz", healthController.HealthHandler)

	r.POST("/itineraries", itineraryController.CreateItineraryHandler)

	sessions := r.Group("/sessions")
	sessions.POST("", wizardController.StartSessionHandler)
	sessions.GET("/:id", wizardController.GetSessionHandler)
	sessions.DELETE("/:id", wizardController.StartOverHandler)
	sessions.POST("/:id/trip-details", wizardController.TripDetailsHandler)
	sessions.POST("/:id/preferences", wizardController.PreferencesHandler)
	sessions.POST("/:id/natural-language", wizardController.NaturalLanguageHandler)
	sessions.POST("/:id/clarify", wizardController.ClarifyHandler)
	sessions.POST("/:id/refine", wizardController.RefineHandler)
	sessions.POST("/:id/back", wizardController.BackHandler)
	sessions.POST("/:id/generate", wizardController.GenerateHandler)

	sessions.GET("/:id/export/markdown", exportController.MarkdownHandler)
	sessions.GET("/:id/export/pdf", exportController.PDFHandler)
	sessions.GET("/:id/share.png", exportController.ShareQRHandler)
}
