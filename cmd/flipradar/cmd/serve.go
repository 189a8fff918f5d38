package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/flipradar-io/flipradar/internal/api/handlers"
	"github.com/flipradar-io/flipradar/internal/api/middleware"
	"github.com/flipradar-io/flipradar/internal/cache"
	"github.com/flipradar-io/flipradar/internal/config"
	"github.com/flipradar-io/flipradar/internal/ebay"
	"github.com/flipradar-io/flipradar/internal/engine"
	"github.com/flipradar-io/flipradar/internal/notify"
	"github.com/flipradar-io/flipradar/internal/pipeline"
	"github.com/flipradar-io/flipradar/internal/tcgplayer"
	"github.com/flipradar-io/flipradar/pkg/economics"
	"github.com/flipradar-io/flipradar/pkg/logger"
	domain "github.com/flipradar-io/flipradar/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and watch scheduler",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	// Cache backend.
	var (
		listingCache cache.Cache
		readyChecks  []handlers.Pinger
	)
	switch cfg.Cache.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		rc := cache.NewRedis(rdb, cfg.Cache.TTL, "flipradar")
		listingCache = rc
		readyChecks = append(readyChecks, rc)
	default:
		listingCache = cache.NewMemory(cfg.Cache.TTL)
	}

	// eBay listing source.
	tokens := ebay.NewOAuthTokenProvider(
		cfg.Ebay.ClientID,
		cfg.Ebay.ClientSecret,
		ebay.WithTokenURL(cfg.Ebay.TokenURL),
	)
	limiter := ebay.NewRateLimiter(
		cfg.Ebay.RateLimit.PerSecond,
		cfg.Ebay.RateLimit.Burst,
		cfg.Ebay.RateLimit.DailyLimit,
	)
	browse := ebay.NewBrowseClient(
		tokens,
		ebay.WithBrowseURL(cfg.Ebay.BrowseURL),
		ebay.WithMarketplace(cfg.Ebay.Marketplace),
		ebay.WithRateLimiter(limiter),
	)
	listings := ebay.NewSource(browse, listingCache)

	// TCGplayer catalog source, when keys are configured.
	var catalog pipeline.CatalogSource
	if cfg.TCGPlayer.Enabled() {
		tcgTokens := tcgplayer.NewKeyTokenProvider(
			cfg.TCGPlayer.PublicKey,
			cfg.TCGPlayer.PrivateKey,
			tcgplayer.WithTokenURL(cfg.TCGPlayer.TokenURL),
		)
		tcgClient := tcgplayer.NewCatalogClient(
			tcgTokens,
			tcgplayer.WithAPIBase(cfg.TCGPlayer.APIBase),
		)
		catalog = tcgplayer.NewSource(tcgClient, listingCache)
	} else {
		log.Info("tcgplayer keys not configured, catalog scans disabled")
	}

	pipe := pipeline.New(
		listings,
		catalog,
		pipeline.WithAssumptions(economics.Assumptions{
			EbayFeeRate:      cfg.Economics.EbayFeeRate,
			TCGSellerFeeRate: cfg.Economics.TCGSellerFeeRate,
			RiskBufferRate:   cfg.Economics.RiskBufferRate,
			DefaultShipping:  cfg.Economics.DefaultShipping,
		}),
		pipeline.WithThresholds(pipeline.Thresholds{
			MinConfidence: cfg.Thresholds.MinConfidence,
			MinDiscount:   cfg.Thresholds.MinDiscount,
			MinProfit:     cfg.Thresholds.MinProfit,
			MinROI:        cfg.Thresholds.MinROI,
		}),
		pipeline.WithLimits(cfg.Search.LiveLimit, cfg.Search.SoldLimit),
		pipeline.WithLogger(log),
	)

	// HTTP server.
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Recovery(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(readyChecks...)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	humaCfg := huma.DefaultConfig("flipradar", Version)
	api := humaecho.New(e, humaCfg)
	handlers.RegisterScanRoutes(api, handlers.NewScanHandler(pipe))

	// Watch scheduler.
	var sched *engine.Scheduler
	if len(cfg.Watches) > 0 {
		notifier := buildNotifier(cfg, log)
		watches := make([]engine.Watch, 0, len(cfg.Watches))
		for _, w := range cfg.Watches {
			watches = append(watches, engine.Watch{
				Name:  w.Name,
				Game:  domain.Game(w.Game),
				Query: w.Query,
				Mode:  w.Mode,
			})
		}

		eng := engine.New(
			pipe,
			notifier,
			watches,
			engine.WithLogger(log),
			engine.WithStaggerOffset(cfg.Schedule.StaggerOffset),
		)

		sched, err = engine.NewScheduler(eng, cfg.Schedule.ScanInterval, log)
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		sched.Start()
	} else {
		log.Info("no watches configured, scheduler not started")
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "err", err)
		}
	}()

	// Wait for interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	if sched != nil {
		<-sched.Stop().Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func buildNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	if cfg.Notifications.Discord.Enabled {
		return notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL)
	}
	return notify.NewNoOpNotifier(log)
}
