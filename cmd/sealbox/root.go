package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	sealbox "github.com/sealbox/client-go"
	"github.com/sealbox/client-go/internal/config"
	"github.com/sealbox/client-go/internal/logging"
)

// IO holds the streams a command reads from and writes to.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultIO returns the process streams.
func DefaultIO() IO {
	return IO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// app carries flags and resolved settings shared by every subcommand.
type app struct {
	streams IO

	configPath   string
	verbose      bool
	debug        bool
	keyStoreDir  string
	directoryURL string

	cfg    *config.Config
	logger *slog.Logger
}

func run(args []string, streams IO) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(streams)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(streams.Stderr, errorText.Sprint("Error: ")+err.Error())
		return err
	}
	return nil
}

func newRootCmd(streams IO) *cobra.Command {
	a := &app{streams: streams}

	root := &cobra.Command{
		Use:           "sealbox",
		Short:         "Per-identity keys and sealed JSON messages",
		Long:          `Generates X25519 key pairs, stores secret keys locally, publishes public keys to a directory and seals JSON payloads with NaCl box.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.SetIn(streams.Stdin)
	root.SetOut(streams.Stdout)
	root.SetErr(streams.Stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (.toml, .yaml or .yml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&a.debug, "debug", "d", false, "enable debug output")
	flags.StringVar(&a.keyStoreDir, "key-store", "", "directory holding secret keys")
	flags.StringVar(&a.directoryURL, "directory-url", "", "public-key directory base URL")

	root.AddCommand(newKeygenCmd(a))
	root.AddCommand(newRegisterCmd(a))
	root.AddCommand(newEncryptCmd(a))
	root.AddCommand(newDecryptCmd(a))
	root.AddCommand(newDirectoryCmd(a))
	return root
}

// load resolves settings: defaults, config file, environment, then flags.
func (a *app) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("key-store") {
		cfg.KeyStoreDir = a.keyStoreDir
	}
	if flags.Changed("directory-url") {
		cfg.Directory.URL = a.directoryURL
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	switch {
	case a.debug:
		level = slog.LevelDebug
	case a.verbose:
		level = slog.LevelInfo
	}

	a.cfg = cfg
	a.logger = logging.New(a.streams.Stderr, logging.Options{Level: level, JSON: cfg.Log.JSON()})
	a.logger.Debug("configuration loaded",
		"config", a.configPath,
		"key_store_dir", cfg.KeyStoreDir,
		"directory_url", cfg.Directory.URL,
	)
	return nil
}

// client builds a sealbox client from the resolved settings.
func (a *app) client() (*sealbox.Client, error) {
	opts := []sealbox.Option{
		sealbox.WithKeyStoreDir(a.cfg.KeyStoreDir),
		sealbox.WithRetries(a.cfg.Directory.Retries),
		sealbox.WithRateLimit(a.cfg.Directory.RateLimit, a.cfg.Directory.RateBurst),
		sealbox.WithLogger(a.logger),
	}
	if a.cfg.Directory.URL != "" {
		opts = append(opts, sealbox.WithDirectoryURL(a.cfg.Directory.URL, a.cfg.Directory.Token))
	}
	return sealbox.New(opts...)
}

// quiet reports whether interactive decorations should be suppressed.
func (a *app) quiet() bool {
	return a.verbose || a.debug
}
