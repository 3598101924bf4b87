package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nasimstg/skilltree/internal/config"
	"github.com/nasimstg/skilltree/internal/server"
	"github.com/nasimstg/skilltree/pkg/progress"
	"github.com/nasimstg/skilltree/pkg/treestore"
)

const shutdownGrace = 10 * time.Second

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the skill-tree API over HTTP",
		Long: `Serve the skill-tree catalog, validation, layout, and progress API.

Configuration comes from a TOML file plus SKILLTREE_* environment
variable overrides. The catalog backend is a tree directory or MongoDB;
progress lives in files, SQLite, or Redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to skilltree.toml")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
		c.Logger.SetLevel(level)
	}

	trees, err := openTreeStore(ctx, cfg.Trees)
	if err != nil {
		return err
	}
	defer trees.Close(context.Background())

	prog, err := openProgressStore(ctx, cfg.Progress)
	if err != nil {
		return err
	}
	defer prog.Close()

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: server.New(trees, prog, c.Logger).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("serving", "addr", cfg.Server.Addr(),
			"trees", cfg.Trees.Backend, "progress", cfg.Progress.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func openTreeStore(ctx context.Context, cfg config.TreesConfig) (treestore.Store, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return treestore.NewFileStore(cfg.Dir)
	case config.BackendMongo:
		return treestore.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	default:
		return nil, fmt.Errorf("unknown trees backend: %q", cfg.Backend)
	}
}

func openProgressStore(ctx context.Context, cfg config.ProgressConfig) (progress.Store, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return progress.NewFileStore(cfg.Dir)
	case config.BackendSQLite:
		return progress.OpenSQLiteStore(cfg.SQLitePath)
	case config.BackendRedis:
		return progress.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown progress backend: %q", cfg.Backend)
	}
}
