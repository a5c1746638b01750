package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/redhat/swagdoc-mcp-golang/internal/config"
	"github.com/redhat/swagdoc-mcp-golang/internal/source"
	"github.com/redhat/swagdoc-mcp-golang/internal/watch"
)

type options struct {
	configPath string
	srcDir     string
	outPath    string
	format     string
	logLevel   string
	recursive  bool
	verify     bool
	stdout     bool
	example    bool
	debounce   time.Duration
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "swagdoc",
		Short: "Generate an OpenAPI 3 document from swag-style handler annotations",
		Example: `  swagdoc --src ./src --out openapi.yaml
  swagdoc generate --config swagdoc.yaml --verify
  swagdoc watch --src ./src
  swagdoc serve`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, fs, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML configuration file")
	flags.StringVar(&opts.srcDir, "src", "", "Directory containing annotated source files")
	flags.StringVarP(&opts.outPath, "out", "o", "", "Output document path")
	flags.StringVarP(&opts.format, "format", "f", "", "Output format (yaml or json)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.BoolVarP(&opts.recursive, "recursive", "r", false, "Scan subdirectories of the source directory")
	flags.BoolVar(&opts.verify, "verify", false, "Re-parse the generated document as OpenAPI 3 before writing")

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate the document once and write it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, fs, opts)
		},
	}
	for _, c := range []*cobra.Command{root, generate} {
		c.Flags().BoolVar(&opts.stdout, "stdout", false, "Write the document to stdout instead of the output path")
		c.Flags().BoolVar(&opts.example, "example", false, "Print the discovered operations instead of writing the document")
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Generate the document and regenerate it whenever source files change",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, fs, opts)
		},
	}
	watchCmd.Flags().DurationVar(&opts.debounce, "debounce", watch.DefaultDebounce, "Quiet period before regenerating")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generator as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, fs, opts)
			if err != nil {
				return err
			}
			return NewSwagdocMCPServer(fs, cfg).Start()
		},
	}

	root.AddCommand(generate, watchCmd, serve)
	return root
}

// loadConfig reads the config file and applies flags that were set explicitly
func loadConfig(cmd *cobra.Command, fs afero.Fs, opts *options) (*config.Config, error) {
	cfg, err := config.Load(fs, opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("src") {
		cfg.Source.Dir = opts.srcDir
	}
	if flags.Changed("out") {
		cfg.Output.Path = opts.outPath
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("recursive") {
		cfg.Source.Recursive = opts.recursive
	}
	if flags.Changed("verify") {
		cfg.Output.Verify = opts.verify
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	setupLogging(cmd.ErrOrStderr(), cfg.LogLevel)
	return cfg, nil
}

func setupLogging(w io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

func runGenerate(cmd *cobra.Command, fs afero.Fs, opts *options) error {
	cfg, err := loadConfig(cmd, fs, opts)
	if err != nil {
		return err
	}

	gen := NewGenerator(fs, cfg)
	if opts.example {
		return runExample(cmd.Context(), gen, cmd.OutOrStdout())
	}

	data, err := gen.Generate(cmd.Context())
	if err != nil {
		return err
	}

	if opts.stdout {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	return gen.Write(data)
}

func runWatch(cmd *cobra.Command, fs afero.Fs, opts *options) error {
	cfg, err := loadConfig(cmd, fs, opts)
	if err != nil {
		return err
	}

	regenerate := func() error {
		gen := NewGenerator(fs, cfg)
		data, err := gen.Generate(cmd.Context())
		if err != nil {
			return err
		}
		return gen.Write(data)
	}
	if err := regenerate(); err != nil {
		return err
	}

	filter, err := sourceFilter(cfg)
	if err != nil {
		return err
	}

	// fsnotify only reports direct children, so every directory is added
	dirs, err := source.Dirs(fs, cfg.Source)
	if err != nil {
		return err
	}
	w, err := watch.New(dirs, filter, opts.debounce, cfg.Source.Recursive)
	if err != nil {
		return err
	}

	log.Info().Str("dir", cfg.Source.Dir).Int("dirs", len(dirs)).Msg("watching for changes")
	return w.Run(cmd.Context(), func(changed []string) error {
		log.Info().Strs("changed", changed).Msg("regenerating")
		if err := regenerate(); err != nil {
			log.Err(err).Msg("regeneration failed")
		}
		return nil
	})
}

// sourceFilter accepts the source files that take part in generation. The
// output document is never accepted, so writing it does not retrigger a run
func sourceFilter(cfg *config.Config) (watch.Filter, error) {
	matcher, err := source.NewMatcher(cfg.Source.Include, cfg.Source.Exclude)
	if err != nil {
		return nil, err
	}

	root := filepath.Clean(cfg.Source.Dir)
	output := absPath(cfg.Output.Path)
	return func(path string) bool {
		path = filepath.Clean(path)
		if absPath(path) == output {
			return false
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		return matcher.Match(filepath.ToSlash(rel))
	}, nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupLogging(os.Stderr, zerolog.LevelInfoValue)

	if err := newRootCmd(afero.NewOsFs()).ExecuteContext(ctx); err != nil {
		log.Err(err).Msg("swagdoc failed")
		stop()
		os.Exit(1)
	}
}
