package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindgrove/internal/api"
	"github.com/matzehuels/mindgrove/pkg/cache"
	"github.com/matzehuels/mindgrove/pkg/pipeline"
	"github.com/matzehuels/mindgrove/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		redisURL   string
		mongoURI   string
		mongoDB    string
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

The server generates and reprocesses mind maps over JSON endpoints. The
cache backend is Redis when --redis-url is set, otherwise the local file
cache; storage is MongoDB when --mongo-uri is set, otherwise in-memory.

Requires OPENAI_API_KEY in the environment.

Examples:
  mindgrove serve
  mindgrove serve --addr :9000 --redis-url redis://localhost:6379/0
  mindgrove serve --mongo-uri mongodb://localhost:27017 --config mindgrove.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), serveConfig{
				addr:       addr,
				redisURL:   redisURL,
				mongoURI:   mongoURI,
				mongoDB:    mongoDB,
				configPath: configPath,
				noCache:    noCache,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "Redis URL for caching (file cache if empty)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB URI for storage (in-memory if empty)")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", appName, "MongoDB database name")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file with pipeline defaults")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

type serveConfig struct {
	addr       string
	redisURL   string
	mongoURI   string
	mongoDB    string
	configPath string
	noCache    bool
}

// runServe wires the server's collaborators and runs it until ctx ends.
func (c *CLI) runServe(ctx context.Context, cfg serveConfig) error {
	opts, err := loadOptions(cfg.configPath)
	if err != nil {
		return err
	}

	gen, err := c.newGenerator(opts.Model)
	if err != nil {
		return err
	}

	cch, err := c.serveCache(ctx, cfg)
	if err != nil {
		return err
	}

	st, err := c.serveStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	runner := pipeline.NewRunner(gen, cch, nil, c.Logger)
	defer runner.Close()

	srv := api.NewServer(api.Config{
		Addr:     cfg.addr,
		Runner:   runner,
		Store:    st,
		Logger:   c.Logger,
		Defaults: opts,
	})
	return srv.Run(ctx)
}

func (c *CLI) serveCache(ctx context.Context, cfg serveConfig) (cache.Cache, error) {
	if cfg.noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.redisURL != "" {
		cch, err := cache.NewRedisCache(ctx, cfg.redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Info("using redis cache")
		return cch, nil
	}
	return newCache(false)
}

func (c *CLI) serveStore(ctx context.Context, cfg serveConfig) (store.Store, error) {
	if cfg.mongoURI == "" {
		c.Logger.Warn("no --mongo-uri given, mind maps are stored in memory")
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, cfg.mongoURI, cfg.mongoDB)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	c.Logger.Info("using mongodb store", "database", cfg.mongoDB)
	return st, nil
}
