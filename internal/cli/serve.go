package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canvaskit/pkg/api"
	"github.com/matzehuels/canvaskit/pkg/cache"
	"github.com/matzehuels/canvaskit/pkg/pipeline"
	"github.com/matzehuels/canvaskit/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redis    string
		mongoURI string
		dir      string
		memory   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP exchange API",
		Long: `Serve starts the HTTP API for validating, merging and storing diagrams.

Documents are kept in MongoDB when a URI is configured, in memory with
--memory, and otherwise as files under ~/.config/canvaskit/diagrams/.
Parsed documents are cached in Redis when an address is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			if redis != "" {
				c.cfg.Redis.Addr = redis
			}
			if mongoURI != "" {
				c.cfg.Mongo.URI = mongoURI
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}

			cch, err := c.serverCache(ctx)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cch, cache.NewScopedKeyer(nil, "api:"), logger)
			runner.MergeOffset = c.cfg.MergeOffset()
			defer runner.Close()

			st, err := c.serverStore(ctx, dir, memory)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := api.New(st, api.Options{
				Runner:         runner,
				Logger:         logger,
				MaxBodyBytes:   c.cfg.Server.MaxBodyBytes,
				AllowedOrigins: c.cfg.Server.AllowedOrigins,
			})
			printInfo("Serving on %s", StyleHighlight.Render(c.cfg.Server.Addr))
			return srv.ListenAndServe(ctx, c.cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&redis, "redis", "", "Redis address for the parse cache")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for the document store")
	cmd.Flags().StringVar(&dir, "dir", "", "directory for the file document store")
	cmd.Flags().BoolVar(&memory, "memory", false, "keep documents in memory only")
	return cmd
}

func (c *CLI) serverCache(ctx context.Context) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	if c.cfg.Redis.Addr == "" {
		return cache.NewMemoryCache(), nil
	}
	return connect(ctx, os.Stderr, stderrIsTerminal(), "Redis at "+c.cfg.Redis.Addr, func(ctx context.Context) (cache.Cache, error) {
		return cache.NewRedisCache(ctx, c.cfg.RedisConfig())
	})
}

func (c *CLI) serverStore(ctx context.Context, dir string, memory bool) (store.Store, error) {
	switch {
	case memory:
		return store.NewMemoryStore(), nil
	case c.cfg.Mongo.URI != "":
		return connect(ctx, os.Stderr, stderrIsTerminal(), "MongoDB", func(ctx context.Context) (store.Store, error) {
			return store.NewMongoStore(ctx, c.cfg.MongoConfig())
		})
	}
	fs, err := store.NewFileStore(dir)
	if err != nil {
		return nil, err
	}
	printDetail("Documents: %s", fs.Dir())
	return fs, nil
}
