package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eaugeas/bstree/config"
	"github.com/eaugeas/bstree/container/tree"
	"github.com/eaugeas/bstree/logs"
	"github.com/eaugeas/bstree/rpcs"
	"github.com/eaugeas/bstree/set"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ServerConfig is the Binder for the flags of the http server
type ServerConfig struct {
	Addr            string
	BodyLimit       uint
	ShutdownTimeout time.Duration
	Seed            int64
	VerifyOnWrite   bool
	Cors            rpcs.HttpCorsPreProcessorProps
}

// Bind is the implementation of config.Binder for ServerConfig
func (c *ServerConfig) Bind(v *viper.Viper, cmd *cobra.Command) error {
	flags := cmd.PersistentFlags()
	flags.String("http.addr", ":8080", "address the server listens on")
	flags.Uint("http.body-limit", 1<<12, "maximum size in bytes of a request body")
	flags.Duration("http.shutdown-timeout", 10*time.Second, "time to wait for requests on shutdown")
	flags.Bool("http.cors.enabled", false, "verify requests against the CORS configuration")
	flags.StringSlice("http.cors.allowed-origins", []string{"*"}, "origins allowed to make cross-domain requests")
	flags.StringSlice("http.cors.allowed-methods", []string{"GET", "POST", "DELETE"}, "methods allowed in cross-domain requests")
	flags.Int("http.cors.max-age", 600, "seconds a preflight response can be cached")
	flags.Int64("tree.seed", 0, "seed of the coin that picks the replacement side on delete, 0 uses the clock")
	flags.Bool("tree.verify-on-write", false, "verify the tree after every write")
	return nil
}

// Configure is the implementation of config.Binder for ServerConfig
func (c *ServerConfig) Configure(v *viper.Viper) error {
	c.Addr = v.GetString("http.addr")
	c.BodyLimit = v.GetUint("http.body-limit")
	c.ShutdownTimeout = v.GetDuration("http.shutdown-timeout")
	c.Seed = v.GetInt64("tree.seed")
	c.VerifyOnWrite = v.GetBool("tree.verify-on-write")
	c.Cors = rpcs.HttpCorsPreProcessorProps{
		Enabled:        v.GetBool("http.cors.enabled"),
		AllowedOrigins: v.GetStringSlice("http.cors.allowed-origins"),
		AllowedMethods: v.GetStringSlice("http.cors.allowed-methods"),
		AllowedHeaders: []string{"Content-Type", rpcs.HttpHeaderTraceID},
		ExposedHeaders: []string{rpcs.HttpHeaderTraceID},
		MaxAge:         v.GetInt("http.cors.max-age"),
	}

	if c.Addr == "" {
		return errors.New("http.addr must be set")
	}

	return nil
}

// Config is the configuration of bstd
type Config struct {
	Logger config.LoggerConfig
	Server ServerConfig
}

// Use is the implementation of config.Config for Config
func (c *Config) Use() string {
	return "http service keeping a set of integers in a binary search tree"
}

// EnvPrefix is the implementation of config.Config for Config
func (c *Config) EnvPrefix() string {
	return "BSTD"
}

// Binders is the implementation of config.Config for Config
func (c *Config) Binders() []config.Binder {
	return []config.Binder{&c.Logger, &c.Server}
}

func coin(seed int64) tree.Coin {
	if seed == 0 {
		return nil
	}

	return tree.NewRandomCoin(seed)
}

func newServer(cfg *Config, logger logs.Logger) *http.Server {
	service := set.NewService(set.ServiceProps{
		Logger:        logger,
		Coin:          coin(cfg.Server.Seed),
		VerifyOnWrite: cfg.Server.VerifyOnWrite,
	})

	binder := rpcs.NewHttpBinder(rpcs.HttpBinderProperties{
		Encoder:        rpcs.JsonEncoder{},
		Logger:         logger,
		HandlerFactory: rpcs.NewHttpJsonHandlerFactory(logger, cfg.Server.BodyLimit),
	})
	binder.AddPreProcessor(rpcs.NewHttpCorsPreProcessor(cfg.Server.Cors))
	service.Bind(binder)

	mux := http.NewServeMux()
	mux.Handle("/", binder.Build())
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func run(ctx context.Context, cfg *Config, logger logs.Logger) error {
	server := newServer(cfg, logger)
	errC := make(chan error, 1)

	go func() {
		logger.Info(ctx, "server listening", logs.MapFields{"addr": cfg.Server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errC <- errors.Wrap(err, "server failed")
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	logger.Info(ctx, "shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down server")
	}

	return <-errC
}

func main() {
	cfg := &Config{}
	parser, err := config.Generate("bstd", cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	if err := parser.Parse(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		_ = parser.Usage()
		os.Exit(1)
	}

	logger := cfg.Logger.Logger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "server stopped with error", logs.MapFields{"err": err.Error()})
		stop()
		os.Exit(1)
	}
}
