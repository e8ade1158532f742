package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/theater-client/internal/api"
	"github.com/iliyamo/theater-client/internal/config"
	"github.com/iliyamo/theater-client/internal/handler"
	"github.com/iliyamo/theater-client/internal/identity"
	"github.com/iliyamo/theater-client/internal/live"
	"github.com/iliyamo/theater-client/internal/middleware"
	"github.com/iliyamo/theater-client/internal/router"
	"github.com/iliyamo/theater-client/internal/synchronizer"
)

func main() {
	cfg := config.Load()
	logger := cfg.NewLogger("client")
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	ident := identity.NewStore(clock)

	backend, err := api.NewClient(api.ClientConfig{
		BaseURL:    cfg.BackendURL,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Logger:     cfg.NewLogger("api"),
		Token:      ident.Token,
	})
	if err != nil {
		logger.Fatalf("api: %v", err)
	}

	// Redis backs both the response cache and, by default, the live
	// channel.  Without it the cache is disabled and the channel falls
	// back to the in-process broker.
	var rdb *redis.Client
	if cfg.Cache.Enabled || cfg.Live.Transport == config.TransportRedis {
		rdb = config.NewRedisClient(cfg.Redis)
		if rdb == nil {
			logger.Warnf("redis: %s unreachable; response cache disabled", cfg.Redis.Addr)
		} else {
			defer rdb.Close()
		}
	}

	topics := live.Topics{SeatPrefix: cfg.Live.TopicPrefix, CommandPrefix: cfg.Live.CommandPrefix}
	channel := live.NewChannel(live.Options{
		Transport: transport(cfg, rdb, clock, topics, logger),
		Clock:     clock,
		Backoff: live.Backoff{
			Delay:       cfg.Live.ReconnectDelay,
			Jitter:      cfg.Live.Jitter,
			MaxAttempts: cfg.Live.MaxAttempts,
		},
		Logger: cfg.NewLogger("live"),
	})
	liveDone := make(chan struct{})
	go func() {
		defer close(liveDone)
		if err := channel.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Errorf("live: %v", err)
		}
	}()

	sessions := synchronizer.NewRegistry(synchronizer.RegistryConfig{Clock: clock, IdleTTL: cfg.SessionTTL})
	go sessions.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Logger = cfg.NewLogger("echo")
	e.Validator = handler.NewValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.RegisterRoutes(e, channel)
	router.RegisterAuth(e, handler.NewAuthHandler(backend, ident, sessions), ident)
	router.RegisterPublic(e, handler.NewBrowseHandler(backend), middleware.NewRedisCache(cfg.Cache, rdb))
	router.RegisterCustomer(e,
		handler.NewSelectionHandler(sessions, synchronizer.Config{
			Backend:  backend,
			Channel:  channel,
			Identity: ident,
			Topics:   topics,
			Logger:   cfg.NewLogger("synchronizer"),
		}),
		handler.NewReservationHandler(backend),
		ident,
	)

	addr := ":" + cfg.Port
	go func() {
		logger.Infof("listening on %s (env=%s, backend=%s, live=%s)", addr, cfg.Env, cfg.BackendURL, cfg.Live.Transport)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("server shutdown: %v", err)
	}
	if n := sessions.CloseAll(); n > 0 {
		logger.Infof("closed %d selection session(s)", n)
	}
	<-liveDone
}

// transport picks the live channel's broker.  A redis transport without
// a reachable server degrades to the in-process broker so the client
// stays usable without live updates from other processes.
func transport(cfg config.Config, rdb *redis.Client, clock clockwork.Clock, topics live.Topics, logger *log.Logger) live.Transport {
	switch cfg.Live.Transport {
	case config.TransportAMQP:
		return &live.AMQPTransport{URL: cfg.Live.AMQPURL, Exchange: cfg.Live.Exchange}
	case config.TransportRedis:
		if rdb != nil {
			return &live.RedisTransport{Client: rdb, PingInterval: cfg.Live.PingInterval, Clock: clock}
		}
		logger.Warn("live: redis unavailable, using in-process broker")
	}
	broker := live.NewMemoryBroker()
	broker.Relay = live.RelayCommands(topics)
	return broker
}
