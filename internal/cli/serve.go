package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcefield/pkg/catalog"
	"github.com/matzehuels/forcefield/pkg/jobs"
	"github.com/matzehuels/forcefield/pkg/server"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		workers   int
		jobTTL    time.Duration
		redisAddr string
		mongoURI  string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

The server accepts layout jobs over POST /api/v1/jobs, runs them on a
bounded worker pool, and serves status, results, and cancellation under
the same path. POST /api/v1/analyze answers synchronously. With a MongoDB
catalog configured, named graphs are served under /api/v1/graphs.

Job state lives in memory unless --redis points at a Redis instance, in
which case restarts and multiple replicas share one job store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, workers, jobTTL, redisAddr, mongoURI, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().IntVar(&workers, "workers", server.DefaultWorkers, "maximum concurrent layout jobs")
	cmd.Flags().DurationVar(&jobTTL, "job-ttl", jobs.DefaultTTL, "how long finished jobs stay retrievable")
	cmd.Flags().StringVar(&redisAddr, "redis", os.Getenv("FORCEFIELD_REDIS_ADDR"), "Redis address for shared job state (default: $FORCEFIELD_REDIS_ADDR)")
	cmd.Flags().StringVar(&mongoURI, "mongo", os.Getenv("FORCEFIELD_MONGO_URI"), "MongoDB URI enabling the graph catalog (default: $FORCEFIELD_MONGO_URI)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the analysis cache")

	return cmd
}

// runServe wires the stores and blocks until the context is canceled.
func (c *CLI) runServe(ctx context.Context, addr string, workers int, jobTTL time.Duration, redisAddr, mongoURI string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var store jobs.Store = jobs.NewMemoryStore()
	if redisAddr != "" {
		redisStore, err := jobs.NewRedisStore(ctx, &redis.Options{Addr: redisAddr})
		if err != nil {
			return fmt.Errorf("connect job store: %w", err)
		}
		store = redisStore
		c.Logger.Info("using redis job store", "addr", redisAddr)
	}
	defer store.Close()

	var cat catalog.Catalog
	if mongoURI != "" {
		mongoCat, err := catalog.NewMongoCatalog(ctx, catalog.MongoConfig{URI: mongoURI})
		if err != nil {
			return fmt.Errorf("connect graph catalog: %w", err)
		}
		cat = mongoCat
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongoCat.Close(closeCtx); err != nil {
				c.Logger.Error("close catalog", "error", err)
			}
		}()
	}

	srv := server.New(server.Config{
		Addr:    addr,
		Workers: workers,
		JobTTL:  jobTTL,
		Store:   store,
		Catalog: cat,
		Runner:  runner,
		Logger:  c.Logger,
	})
	return srv.Start(ctx)
}
