package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"geoglobe/internal/config"
	"geoglobe/internal/geom"
	"geoglobe/internal/logger"
	"geoglobe/internal/session"
	"geoglobe/internal/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "geoglobe:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := config.NewFlagSet("geoglobe")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: geoglobe [flags] <countries%s>\n", strings.Join(geom.Extensions, "|"))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}
	if write, _ := fs.GetBool("write-config"); write {
		return writeConfig(fs, cfg)
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected one country file")
	}
	path := fs.Arg(0)
	if !geom.Supported(path) {
		return fmt.Errorf("%s: unsupported file type, want one of %s", path, strings.Join(geom.Extensions, ", "))
	}

	// The TUI owns the terminal, so logs only go to the file.
	log, err := logger.New(cfg.Logging.Level, logFileConfig(cfg.Logging), false)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	data, err := geom.Load(path)
	if err != nil {
		return err
	}
	log.Info("countries loaded",
		zap.String("path", path),
		zap.Int("countries", len(data.Countries)),
		zap.Int("skipped", data.Skipped))

	backend, err := newBackend(cfg.Storage)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("init %s storage: %w", cfg.Storage.Type, err)
	}
	log.Debug("storage ready", zap.String("type", cfg.Storage.Type))

	ctx := context.Background()
	sess, err := session.Open(ctx, data.Countries, backend, cfg.Storage.Key, log)
	if err != nil {
		backend.Close()
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Error("closing storage", zap.Error(err))
		}
	}()

	m := tui.New(ctx, sess, cfg, log)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// writeConfig saves cfg to --config, or to the default config path.
func writeConfig(fs *pflag.FlagSet, cfg *config.Config) error {
	path, _ := fs.GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	if err := cfg.SaveTo(path); err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "wrote", path)
	return nil
}

// logFileConfig fills the rotation settings left unset in the config.
func logFileConfig(lc config.LoggingConfig) logger.FileConfig {
	fc := logger.DefaultFileConfig(lc.File)
	if lc.MaxSizeMB > 0 {
		fc.MaxSizeMB = lc.MaxSizeMB
	}
	if lc.MaxBackups > 0 {
		fc.MaxBackups = lc.MaxBackups
	}
	if lc.MaxAgeDays > 0 {
		fc.MaxAgeDays = lc.MaxAgeDays
	}
	fc.Compress = lc.Compress
	return fc
}
