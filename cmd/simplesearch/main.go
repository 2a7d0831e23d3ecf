package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"

	"github.com/simplesearch/simplesearch/config"
	"github.com/simplesearch/simplesearch/pkg/logger"
	"github.com/simplesearch/simplesearch/pkg/metrics"
	"github.com/simplesearch/simplesearch/pkg/search"
	"github.com/simplesearch/simplesearch/pkg/storage"
	badgerstore "github.com/simplesearch/simplesearch/pkg/storage/badger"
	memorystore "github.com/simplesearch/simplesearch/pkg/storage/memory"
	sqlitestore "github.com/simplesearch/simplesearch/pkg/storage/sqlite"
	"github.com/simplesearch/simplesearch/pkg/telemetry/tracing"
	"github.com/simplesearch/simplesearch/pkg/version"
)

var (
	configPath string
	indexPath  string
	logLevel   string
	debugMode  bool
)

func main() {
	root := &cobra.Command{
		Use:          "simplesearch",
		Short:        "simplesearch is an embeddable full-text search engine",
		Long:         "Indexes plain-text documents and answers free-form keyword queries with ranked results.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file")
	root.PersistentFlags().StringVarP(&indexPath, "index", "i", "", "override index artifact path")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level")
	root.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")

	root.AddCommand(newIndexCmd(), newSearchCmd(), newStatsCmd(), newClearCmd(), newVersionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads configuration with CLI overrides applied.
func loadConfig() (*config.Config, error) {
	overrides := map[string]interface{}{}
	if indexPath != "" {
		overrides["engine.index_path"] = indexPath
	}
	if logLevel != "" {
		overrides["log.level"] = logLevel
	}
	if debugMode {
		overrides["app.debug"] = true
		overrides["log.level"] = "debug"
	}
	return config.Load(configPath, overrides)
}

// buildEngine wires logger, metrics, archive and scorer from configuration.
func buildEngine(ctx context.Context, cfg *config.Config) (*search.Engine, func(), error) {
	log := logger.New(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	logger.SetGlobal(log)

	opts := []search.Option{search.WithLogger(log)}
	closers := []func(){}

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, cfg.App.Name, version.Version)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error("error shutting down tracing", "error", err)
		}
	})

	var scorer search.Scorer
	switch cfg.Engine.Scorer {
	case "bm25":
		scorer = &search.BM25Scorer{
			K1: cfg.Engine.BM25.K1,
			K2: cfg.Engine.BM25.K2,
			B:  cfg.Engine.BM25.B,
		}
	default:
		scorer = &search.QLScorer{Mu: cfg.Engine.QL.Mu}
	}
	opts = append(opts, search.WithScorer(scorer))

	if cfg.Engine.StopwordsFile != "" {
		stopper, err := search.LoadStopperFile(cfg.Engine.StopwordsFile)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, search.WithStopper(stopper))
	}

	if cfg.Archive.Enabled {
		var store storage.DocumentStore
		var err error
		switch cfg.Archive.Type {
		case "badger":
			store, err = badgerstore.NewBadgerStore(&badgerstore.Config{Path: cfg.Archive.Path})
		case "sqlite":
			store, err = sqlitestore.NewSQLiteStore(cfg.Archive.Path)
		default:
			store = memorystore.NewMemoryStore()
		}
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() {
			if err := store.Close(); err != nil {
				log.Error("error closing archive", "error", err)
			}
		})
		opts = append(opts, search.WithArchive(store))
	}

	if cfg.Metrics.Enabled {
		mgr := metrics.NewManager(metrics.Config{
			Enabled:               true,
			Port:                  cfg.Metrics.Port,
			Path:                  cfg.Metrics.Path,
			IndexDurationBuckets:  metrics.DefaultConfig().IndexDurationBuckets,
			SearchDurationBuckets: metrics.DefaultConfig().SearchDurationBuckets,
			CommitDurationBuckets: metrics.DefaultConfig().CommitDurationBuckets,
		})
		if err := mgr.StartServer(ctx, cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			return nil, nil, err
		}
		opts = append(opts, search.WithMetrics(mgr))
	}

	eng, err := search.New(cfg.Engine.IndexPath, opts...)
	if err != nil {
		for _, closeFn := range closers {
			closeFn()
		}
		return nil, nil, err
	}
	cleanup := func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}
	return eng, cleanup, nil
}

func newIndexCmd() *cobra.Command {
	var (
		dir     string
		slug    string
		charset string
		perSec  float64
		trimExt bool
	)
	cmd := &cobra.Command{
		Use:   "index [files...]",
		Short: "Index files or a directory and commit the artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" && len(args) == 0 {
				return fmt.Errorf("nothing to index: pass files or --dir")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			eng, cleanup, err := buildEngine(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, span := tracing.StartSpan(ctx, "index")
			defer span.End()

			indexed := 0
			if dir != "" {
				slugFn := func(name string) string {
					if trimExt {
						return strings.TrimSuffix(name, filepath.Ext(name))
					}
					return name
				}
				var bulkOpts []search.BulkOption
				if perSec > 0 {
					bulkOpts = append(bulkOpts, search.WithRateLimit(perSec))
				}
				n, err := eng.IndexDir(ctx, dir, slugFn, bulkOpts...)
				if err != nil {
					return err
				}
				indexed += n
			}
			for _, path := range args {
				docSlug := slug
				if docSlug == "" || len(args) > 1 {
					docSlug = filepath.Base(path)
					if trimExt {
						docSlug = strings.TrimSuffix(docSlug, filepath.Ext(docSlug))
					}
				}
				if _, err := eng.IndexFileEncoded(ctx, path, docSlug, charset); err != nil {
					return err
				}
				indexed++
			}

			if err := eng.Commit(); err != nil {
				return err
			}
			span.SetAttributes(attribute.Int("documents", indexed))
			fmt.Printf("indexed %d documents (%d total, %d terms) -> %s\n",
				indexed, eng.NumDocs(), eng.NumTerms(), eng.Filepath())
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "index every file in this directory")
	cmd.Flags().StringVarP(&slug, "slug", "s", "", "slug for a single file (defaults to file name)")
	cmd.Flags().StringVar(&charset, "encoding", "", "source character set (IANA name, default UTF-8)")
	cmd.Flags().Float64Var(&perSec, "rate", 0, "max documents per second for --dir ingestion")
	cmd.Flags().BoolVar(&trimExt, "trim-ext", false, "strip file extensions from generated slugs")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var (
		limit       int
		interactive bool
		watch       bool
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run a query against the committed index",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !interactive && len(args) == 0 {
				return fmt.Errorf("pass a query or use --interactive")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			eng, cleanup, err := buildEngine(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			if interactive {
				return runInteractive(ctx, cfg, eng, limit, watch)
			}

			_, span := tracing.StartSpan(ctx, "search")
			defer span.End()
			results := eng.Search(strings.Join(args, " "))
			span.SetAttributes(attribute.Int("results", len(results)))
			return printResults(results, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results (0 for all)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "I", false, "read queries from stdin, one per line")
	cmd.Flags().BoolVar(&watch, "watch", false, "hot-reload the config file while interactive (requires --config)")
	return cmd
}

// runInteractive answers queries from stdin until EOF. With --watch, the
// config file is monitored and hot-reloadable settings are applied to the
// running process.
func runInteractive(ctx context.Context, cfg *config.Config, eng *search.Engine, limit int, watch bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if watch {
		if configPath == "" {
			logger.Warn("--watch needs --config; continuing without hot reload")
		} else {
			stop, err := watchConfig(ctx, cfg)
			if err != nil {
				return err
			}
			defer stop()
		}
	}

	fmt.Println("one query per line; ctrl-d to exit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		_, span := tracing.StartSpan(ctx, "search")
		results := eng.Search(query)
		span.SetAttributes(attribute.Int("results", len(results)))
		span.End()
		if err := printResults(results, limit); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// watchConfig starts the fsnotify watcher on the config file and applies
// hot-reloadable settings on change. The returned function stops it.
func watchConfig(ctx context.Context, cfg *config.Config) (func(), error) {
	w, err := config.NewWatcher(configPath, config.NewLoader())
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	current := config.ExtractHotReloadable(cfg)
	w.OnChange(func(next *config.Config) {
		hot := config.ExtractHotReloadable(next)
		mu.Lock()
		defer mu.Unlock()
		if !hot.Changed(current) {
			return
		}
		current = hot
		logger.Global().SetLevel(logger.ParseLevel(hot.LogLevel))
		logger.Info("applied hot-reloaded settings", "log_level", hot.LogLevel)
	})

	go func() {
		if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("config watcher stopped", "error", err)
		}
	}()
	return func() { _ = w.Stop() }, nil
}

func printResults(results []search.Result, limit int) error {
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if len(results) == 0 {
		fmt.Println("no results")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSLUG\tSCORE")
	for i, res := range results {
		fmt.Fprintf(w, "%d\t%s\t%.6f\n", i+1, res.Slug, res.Score)
	}
	return w.Flush()
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print index statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			eng, cleanup, err := buildEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Printf("artifact:  %s\n", eng.Filepath())
			fmt.Printf("documents: %d\n", eng.NumDocs())
			fmt.Printf("terms:     %d\n", eng.NumTerms())
			return nil
		},
	}
}

func newClearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Erase the index and rewrite an empty artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear without --yes")
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			eng, cleanup, err := buildEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			eng.ClearAllData()
			if err := eng.Commit(); err != nil {
				return err
			}
			fmt.Printf("cleared %s\n", eng.Filepath())
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the clear")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.String())
		},
	}
}
