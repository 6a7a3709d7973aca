package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"token-aggregator/core/broadcast"
	"token-aggregator/core/config"
	"token-aggregator/core/loader"
	"token-aggregator/core/logger"
	"token-aggregator/core/middleware/rayid"
	"token-aggregator/core/poller"

	"token-aggregator/feature/health"
	"token-aggregator/feature/stream"
	"token-aggregator/feature/tokens"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "token-aggregator/docs/swagger"
)

// @title Token Aggregator API
// @version 1.0
// @description Aggregated token market data with cursor pagination and live updates.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the token aggregator server",
	Long:  `Starts the HTTP server, the websocket hub and the background poller.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)
		logg = logg.With(zap.String("env", cfg.Server.Env))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// 3. Cache, sources and aggregation service
		p := newPipeline(ctx, cfg, logg)

		// 4. Broadcast hub with the optional Kafka mirror
		var sinks []broadcast.Sink
		var kafkaSink *broadcast.KafkaSink
		if len(cfg.Kafka.BrokerList()) > 0 {
			kafkaSink = broadcast.NewKafkaSink(cfg.Kafka, logg.Named("kafka"))
			sinks = append(sinks, kafkaSink)
			logg.Info("Mirroring events to kafka", zap.String("topic", cfg.Kafka.Topic))
		}
		hub := broadcast.NewHub(logg.Named("hub"), p.metrics, sinks...)

		// 5. Poller
		poll := poller.New(cfg.Poller, p.aggregator, hub, logg.Named("poller"), p.metrics)

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
		})

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				l.Error("Request error", append(fields, zap.Error(err))...)
				return err
			}
			l.Debug("Request completed", fields...)
			return nil
		})

		// 3. CORS
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.Server.ClientOrigin,
			AllowMethods: "GET,OPTIONS",
		}))

		// 4. Swagger and metrics (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(p.metrics.Handler()))

		// 7. Load Features
		mgr := loader.NewManager()
		mgr.Register(tokens.NewFeature(p.aggregator, cfg.Query, logg.Named("tokens")))
		mgr.Register(health.NewFeature(p.aggregator, hub, p.redis))
		mgr.Register(stream.NewFeature(hub, cfg.Server.ClientOrigin, logg.Named("stream")))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Poller and Server
		poll.Start(ctx)

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")

		timeout := time.Duration(cfg.Server.ShutdownTimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if err := poll.Stop(shutdownCtx); err != nil {
			logg.Warn("Poller did not stop in time", zap.Error(err))
		}
		hub.Close()
		if err := app.ShutdownWithTimeout(timeout); err != nil {
			logg.Warn("Server shutdown failed", zap.Error(err))
		}
		if kafkaSink != nil {
			if err := kafkaSink.Close(); err != nil {
				logg.Warn("Failed to flush kafka writer", zap.Error(err))
			}
		}
		p.Close(logg)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
