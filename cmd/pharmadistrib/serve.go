package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tair/pharmadistrib/docs"
	"github.com/tair/pharmadistrib/internal/app"
	"github.com/tair/pharmadistrib/internal/config"
	httpDelivery "github.com/tair/pharmadistrib/internal/delivery/http"
	"github.com/tair/pharmadistrib/pkg/logger"
	"github.com/tair/pharmadistrib/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger.Logger.Info().
		Str("service", cfg.Service.Name).
		Str("environment", cfg.Service.Environment).
		Str("log_level", cfg.Service.LogLevel).
		Str("storage", cfg.Storage.Backend).
		Bool("kafka", cfg.Kafka.Enabled).
		Bool("guard", cfg.Guard.Enabled).
		Bool("rate_limit", cfg.HTTP.RateLimit.Enabled).
		Msg("Starting PharmaDistrib")

	tp, err := tracing.InitTracer(tracing.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.Service.Name,
		ServiceVersion: Version,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
		SampleRatio:    cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	application, cleanup, err := app.InitializeApp(ctx, cfg, reg)
	if err != nil {
		return err
	}
	defer cleanup()

	errCh := make(chan error, 2)

	if application.Generator != nil {
		go func() {
			if err := application.Generator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Logger.Error().Err(err).Msg("Notification generator stopped")
			}
		}()
	}

	if application.Consumer != nil {
		if err := application.Consumer.Start(ctx); err != nil {
			return err
		}
	}

	if cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
		if err != nil {
			return err
		}
		application.GRPC.SetServing()
		go func() { errCh <- application.GRPC.Serve(lis) }()
		defer application.GRPC.Stop()
	}

	server := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           newRouter(application, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTP.Port).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Logger.Info().Msg("Shutting down server...")
	case err := <-errCh:
		logger.Logger.Error().Err(err).Msg("Server failed")
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newRouter mounts every route behind the middleware chain and CORS
func newRouter(application *app.App, reg *prometheus.Registry) http.Handler {
	cfg := application.Config
	router := mux.NewRouter()

	middlewareConfig := httpDelivery.DefaultMiddlewareConfig(cfg.HTTP.RequestTimeout, cfg.HTTP.AllowedOrigins)
	httpDelivery.RegisterMiddlewares(router, middlewareConfig)
	if application.RateLimiter != nil {
		router.Use(application.RateLimiter.Middleware)
	}

	application.Payment.RegisterRoutes(router)
	application.HTTP.RegisterRoutes(router)
	application.HTTP.RegisterHealthCheck(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return httpDelivery.SetupCORS(middlewareConfig)(router)
}
