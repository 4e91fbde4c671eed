package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lexandro/codesearch-mcp/config"
	"github.com/lexandro/codesearch-mcp/engine"
	"github.com/lexandro/codesearch-mcp/ignore"
	"github.com/lexandro/codesearch-mcp/register"
	"github.com/lexandro/codesearch-mcp/server"
	"github.com/lexandro/codesearch-mcp/tools"
	"github.com/lexandro/codesearch-mcp/watcher"
)

// cli carries the state shared by all commands of one invocation.
type cli struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "codesearch-mcp",
		Short: "Semantic code index for JavaScript/TypeScript projects, served over MCP",
		Long: `codesearch-mcp indexes a project's JavaScript/TypeScript, JSON and Markdown files
(functions, classes, imports, exports, keywords, JSON keys, Markdown headers) and
answers ranked search and related-file queries.

Without a subcommand it serves the index to an MCP client over stdio:
  codesearch-mcp --root ./my-project`,
		Version:           server.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
		RunE:              c.runServe,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default is .codesearch.yaml in the root)")
	flags.String("root", "", "project root directory (default: current working directory)")
	flags.StringSlice("exclude-glob", nil, "extra doublestar exclude pattern (repeatable)")
	flags.Bool("respect-gitignore", false, "skip files matched by the root .gitignore")
	flags.Int64("max-file-size", 0, "maximum file size in bytes, 0 for unlimited")
	flags.Int("max-results", 10, "default number of search results")
	flags.Bool("fulltext", true, "build the content index used by grep and read")
	flags.String("log-level", "info", "log level: debug|info|warn|error")
	flags.String("log-file", "", "log file path (default: codesearch-mcp.log in the root)")
	bindFlags(c.v, flags.Lookup, map[string]string{
		"root":              "root",
		"exclude_globs":     "exclude-glob",
		"respect_gitignore": "respect-gitignore",
		"max_file_size":     "max-file-size",
		"max_results":       "max-results",
		"fulltext":          "fulltext",
		"log.level":         "log-level",
		"log.file":          "log-file",
	})

	rootCmd.Flags().Bool("watch", true, "reindex when files change")
	rootCmd.Flags().Int("sync-interval", 0, "seconds between drift checks, 0 to disable")
	bindFlags(c.v, rootCmd.Flags().Lookup, map[string]string{
		"watch":         "watch",
		"sync_interval": "sync-interval",
	})

	rootCmd.AddCommand(
		c.newIndexCommand(),
		c.newSearchCommand(),
		c.newRelatedCommand(),
		newRegisterCommand(),
	)
	return rootCmd
}

// bindFlags binds config keys to flags. A missing flag is a programming error.
func bindFlags(v *viper.Viper, lookup func(string) *pflag.Flag, keys map[string]string) {
	for key, flagName := range keys {
		if err := v.BindPFlag(key, lookup(flagName)); err != nil {
			panic(fmt.Sprintf("binding flag %q to %q: %v", flagName, key, err))
		}
	}
}

// loadConfig resolves flags, environment, config file and defaults into c.cfg.
func (c *cli) loadConfig(cmd *cobra.Command, args []string) error {
	config.SetDefaults(c.v)
	if err := config.ReadConfigFile(c.v, c.configFile, c.v.GetString("root")); err != nil {
		return err
	}
	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	c.cfg = cfg
	c.logger = setupLogger(cfg.Log.Level, cfg.Log.File)
	return nil
}

func (c *cli) newEngine() *engine.Engine {
	matcher := ignore.NewMatcher(c.cfg.MatcherOptions())
	if path := c.snapshotPath(); path != "" {
		matcher.ExcludeFile(path)
	}
	return engine.New(engine.Options{
		RootDir:            c.cfg.Root,
		Matcher:            matcher,
		MaxKeywordTerms:    c.cfg.MaxKeywordTerms,
		ExportKeywordLimit: c.cfg.Snapshot.KeywordLimit,
		FullText:           c.cfg.FullText,
		Logger:             c.logger,
	})
}

// snapshotPath returns the configured snapshot path, resolved against the
// root when relative.
func (c *cli) snapshotPath() string {
	path := c.cfg.Snapshot.Path
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.cfg.Root, path)
}

// runServe indexes the root, starts the optional change triggers and serves
// MCP on stdio until the client disconnects or a signal arrives.
func (c *cli) runServe(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	logger := c.logger
	logger.Info("starting codesearch-mcp",
		"root", c.cfg.Root,
		"maxFileSize", c.cfg.MaxFileSize,
		"maxResults", c.cfg.MaxResults,
		"fulltext", c.cfg.FullText,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng := c.newEngine()
	defer eng.Close()

	if _, err := runIndexPass(ctx, eng, "startup", logger); err != nil {
		return err
	}

	if c.cfg.Watch {
		fileWatcher, err := watcher.NewWatcher(c.cfg.Root, eng.Matcher(), watcher.DefaultDebounceInterval, logger)
		if err != nil {
			logger.Warn("failed to start file watcher, continuing without live updates", "error", err)
		} else {
			defer fileWatcher.Close()
			go fileWatcher.Run(ctx)
			go handleWatcherChanges(ctx, fileWatcher.Changes(), eng, logger)
		}
	}
	if c.cfg.SyncInterval > 0 {
		go runPeriodicSync(ctx, time.Duration(c.cfg.SyncInterval)*time.Second, eng, logger)
	}

	mcpServer := server.Setup(server.Handlers{
		Search:   &tools.SearchHandler{Engine: eng, DefaultLimit: c.cfg.MaxResults, Logger: logger},
		Related:  &tools.RelatedHandler{Engine: eng, Logger: logger},
		Files:    &tools.FilesHandler{Engine: eng, Logger: logger},
		Grep:     &tools.GrepHandler{Engine: eng, Logger: logger},
		Read:     &tools.ReadHandler{Engine: eng, Logger: logger},
		Status:   &tools.StatusHandler{Engine: eng, StartTime: startTime, Logger: logger},
		Reindex:  &tools.ReindexHandler{Engine: eng, Logger: logger},
		Snapshot: &tools.SnapshotHandler{Engine: eng, DefaultPath: c.snapshotPath(), Logger: logger},
	})

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("MCP server error", "error", err)
		return err
	}
	return nil
}

func (c *cli) newIndexCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Run one index pass and print its statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng := c.newEngine()
			defer eng.Close()

			stats, err := runIndexPass(cmd.Context(), eng, "cli", c.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %s\n", tools.FormatStats(stats))

			if out == "" {
				out = c.snapshotPath()
			}
			if out == "" {
				return nil
			}
			if _, err := eng.ExportFile(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot written to %s\n", absPath(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write a snapshot (.json, .yaml or .yml) after indexing")
	return cmd
}

func (c *cli) newSearchCommand() *cobra.Command {
	var (
		limit        int
		searchType   string
		extension    string
		snapshotPath string
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank files against a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := c.openEngine(snapshotPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			if limit <= 0 {
				limit = c.cfg.MaxResults
			}
			results, err := eng.Search(cmd.Context(), args[0], engine.SearchOptions{
				Limit:     limit,
				Type:      engine.SearchType(searchType),
				Extension: extension,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tools.FormatSearchResults(args[0], results))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results (default max_results)")
	cmd.Flags().StringVarP(&searchType, "type", "t", "all", "all, function, class or file")
	cmd.Flags().StringVarP(&extension, "ext", "e", "", "only files with this extension")
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "search a snapshot file instead of indexing the root")
	return cmd
}

func (c *cli) newRelatedCommand() *cobra.Command {
	var snapshotPath string
	cmd := &cobra.Command{
		Use:   "related <path>",
		Short: "Suggest files related to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := c.openEngine(snapshotPath)
			if err != nil {
				return err
			}
			defer eng.Close()

			related, err := eng.SuggestRelated(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tools.FormatRelatedFiles(args[0], related))
			return nil
		},
	}
	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "use a snapshot file instead of indexing the root")
	return cmd
}

// openEngine returns an engine loaded from snapshotPath, or an empty one that
// indexes the root on its first query.
func (c *cli) openEngine(snapshotPath string) (*engine.Engine, error) {
	eng := c.newEngine()
	if snapshotPath == "" {
		return eng, nil
	}
	if _, err := eng.ImportFile(snapshotPath); err != nil {
		eng.Close()
		return nil, err
	}
	return eng, nil
}

func newRegisterCommand() *cobra.Command {
	var serverName string
	cmd := &cobra.Command{
		Use:   "register <project|user> [directory] [-- server flags...]",
		Short: "Add this server to an MCP client configuration",
		Long: `Writes an mcpServers entry for this binary.

  register project [directory]   # <directory>/.mcp.json (default: .)
  register user                  # ~/.claude.json
  register project . -- --fulltext=false`,
		Args: cobra.RangeArgs(1, 64),
		// Registration does not read the project configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, serverArgs := args, []string(nil)
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				positional, serverArgs = args[:dash], args[dash:]
			}
			if len(positional) == 0 || len(positional) > 2 {
				return fmt.Errorf("expected <project|user> [directory] before --, got %d arguments", len(positional))
			}

			binaryPath, err := register.DetectBinaryPath()
			if err != nil {
				return err
			}
			options := register.Options{
				Scope:      register.Scope(positional[0]),
				ServerName: serverName,
				BinaryPath: binaryPath,
				ServerArgs: serverArgs,
			}
			if len(positional) > 1 {
				options.Directory = positional[1]
			}
			if options.ServerName == "" {
				options.ServerName = register.DeriveServerName(binaryPath)
			}

			configPath, err := register.Register(options)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %q in %s\n", options.ServerName, configPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&serverName, "name", "", "server name (default: binary name without -mcp)")
	return cmd
}

// absPath resolves p against the working directory for display.
func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
