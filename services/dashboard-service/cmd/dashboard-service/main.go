package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/salonworks/salonboard/libs/config"
	"github.com/salonworks/salonboard/libs/httpx"
	otelx "github.com/salonworks/salonboard/libs/otel"
	"github.com/salonworks/salonboard/libs/runtime"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/dashboard"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/dataservice"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/handlers"
	"github.com/salonworks/salonboard/services/dashboard-service/internal/notify"
)

func main() {
	_ = godotenv.Load()

	service := config.String("SERVICE_NAME", "dashboard-service")
	port, err := config.Port("PORT", "8081")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	storeURL, err := config.RequiredString("STORE_URL")
	if err != nil {
		panic(err)
	}
	store := dataservice.NewHTTP(storeURL, config.Duration("STORE_TIMEOUT", 10*time.Second))

	events := &notify.Recorder{}
	notifier := notify.Fanout{notify.NewLog(logger), events}

	ctrl := dashboard.New(store, notifier, logger, dashboard.Config{
		AverageServiceMinutes: config.Int("DEFAULT_AVG_SERVICE_MINUTES", 45),
	})

	// Initial load. A failure is not fatal: the API stays up and the client
	// can retry through POST /v1/dashboard/refresh.
	loadCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	if err := ctrl.Refresh(loadCtx); err != nil {
		logger.Warn("initial fetch failed", "err", err)
	}
	cancel()

	if interval := config.Duration("REFRESH_INTERVAL", 0); interval > 0 {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := ctrl.Refresh(ctx); err != nil {
						logger.Warn("periodic refresh failed", "err", err)
					}
				}
			}
		}()
	}

	mux := runtime.NewBaseMuxWithReady()
	handlers.NewDashboardHandler(ctrl, events, logger).Register(mux)

	rl := httpx.NewRateLimiter(config.Int("RATE_LIMIT_PER_MINUTE", 120), time.Minute)
	handler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: strings.Split(config.String("CORS_ALLOWED_ORIGINS", ""), ","),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         10 * time.Minute,
		}),
		httpx.WithBodyLimit(int64(config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20))),
		httpx.WithTimeout(config.Duration("REQUEST_TIMEOUT", 10*time.Second)),
		rl.Middleware(),
	)
	handler = otelhttp.NewHandler(handler, "dashboard")

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	logger.Info("http server stopped")
}
