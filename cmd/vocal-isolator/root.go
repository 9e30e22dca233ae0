package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/handiism/vocal-isolator/internal/config"
	"github.com/handiism/vocal-isolator/internal/ffmpeg"
	"github.com/handiism/vocal-isolator/internal/isolate"
	"github.com/handiism/vocal-isolator/internal/tui"
)

type options struct {
	configPath  string
	catalogPath string
	baseDir     string
	ffmpegPath  string

	group  string
	member string
	song   string

	all         bool
	verbose     bool
	dryRun      bool
	writeConfig bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "vocal-isolator",
		Short: "Strip silence from a member's isolated vocal tracks",
		Long: `vocal-isolator walks you through choosing a group, a member and a song,
then runs ffmpeg's silenceremove filter on the song from
<base>/<group>/<member>/train and saves the result to
<base>/<group>/<member>/train/Isolated_Vocals.

Any prompt can be skipped with --group, --member and --song. Without a
terminal all three are required (or --all instead of --song).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/vocal-isolator/config.toml)")
	flags.StringVar(&opts.catalogPath, "catalog", "", "YAML catalog of groups and members (default built-in)")
	flags.StringVar(&opts.baseDir, "base", "", "base directory holding <group>/<member> folders (default: parent of the executable's folder)")
	flags.StringVar(&opts.ffmpegPath, "ffmpeg", "", "ffmpeg binary to run")
	flags.StringVarP(&opts.group, "group", "g", "", "group to use instead of prompting")
	flags.StringVarP(&opts.member, "member", "m", "", "member to use instead of prompting")
	flags.StringVarP(&opts.song, "song", "s", "", "song file name to use instead of prompting")
	flags.BoolVarP(&opts.all, "all", "a", false, "process every eligible song of the member")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "show verbose output and debug logs")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "show the ffmpeg commands without running them")
	flags.BoolVar(&opts.writeConfig, "write-config", false, "write the effective settings to the settings file and exit")
	cmd.MarkFlagsMutuallyExclusive("song", "all")

	return cmd
}

func run(ctx context.Context, stdout, stderr io.Writer, opts *options) error {
	logger := newLogger(stderr, opts.verbose)

	settings, path, err := loadSettings(opts)
	if err != nil {
		return err
	}
	if opts.writeConfig {
		if err := settings.Save(path); err != nil {
			return fmt.Errorf("write settings: %w", err)
		}
		fmt.Fprintf(stdout, "Wrote settings to %s\n", path)
		return nil
	}

	catalog, err := config.LoadCatalog(settings.CatalogPath)
	if err != nil {
		return err
	}

	base, err := settings.ResolveBaseDir()
	if err != nil {
		return err
	}
	layout := settings.ToLayout(base)
	logger.Debug("resolved base directory", "path", base)

	runner := ffmpeg.NewRunner(settings.FFmpegPath, logger)
	runner.Overwrite = settings.Overwrite

	deps := isolate.Deps{
		Processor: runner,
		Logger:    logger,
		OnProgress: func(event isolate.ProgressEvent) {
			if event.Level == isolate.LevelVerbose && !opts.verbose {
				return
			}
			fmt.Fprintln(stdout, tui.RenderEvent(event))
		},
	}
	if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		prompter := tui.NewPrompter(os.Stdin, os.Stdout)
		deps.Prompter = prompter
		deps.Wait = prompter.Wait
	}

	manager := isolate.NewManager(settings, catalog, layout, deps)
	report, err := manager.Run(ctx, isolate.Options{
		Group:  opts.group,
		Member: opts.member,
		Song:   opts.song,
		All:    opts.all,
		DryRun: opts.dryRun,
	})

	if errors.Is(err, isolate.ErrInteractiveRequired) {
		return fmt.Errorf("%w; pass --group, --member and --song (or --all)", err)
	}
	if errors.Is(err, ffmpeg.ErrToolNotInstalled) {
		fmt.Fprintln(stderr, "Install ffmpeg or point --ffmpeg at it.")
	}
	if report != nil && (opts.all || opts.dryRun) {
		fmt.Fprintln(stdout, renderSummary(report, runner))
	}
	if err != nil && report != nil && report.Failed() > 0 && ctx.Err() == nil {
		return &processingError{err: err}
	}
	return err
}

// loadSettings returns the settings with flag overrides applied, and the
// settings file path they were read from.
func loadSettings(opts *options) (*config.Settings, string, error) {
	path := opts.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, "", err
		}
	}

	settings, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}

	if opts.catalogPath != "" {
		settings.CatalogPath = opts.catalogPath
	}
	if opts.baseDir != "" {
		settings.BaseDir = opts.baseDir
	}
	if opts.ffmpegPath != "" {
		settings.FFmpegPath = opts.ffmpegPath
	}

	if err := settings.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return settings, path, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
