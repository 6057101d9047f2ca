package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/inamate/stage/internal/config"
	"github.com/inamate/stage/internal/document"
	"github.com/inamate/stage/internal/engine"
)

var rootCmd = &cobra.Command{
	Use:   "stagectl",
	Short: "Drive the stage editor engine from the command line",
	Long: `stagectl loads scenes into an editor session, replays scripted
operations against them and renders the result.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log engine activity to stderr")
}

func loggerFor(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// editorConfig reads the editor tunables from the environment.
func editorConfig() (config.Editor, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Editor{}, fmt.Errorf("load config: %w", err)
	}
	return cfg.Editor, nil
}

func readScene(path string) (*document.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return document.Parse(data)
}

func newSession(cmd *cobra.Command) (*engine.Engine, error) {
	cfg, err := editorConfig()
	if err != nil {
		return nil, err
	}
	return engine.NewEngine(engine.WithConfig(cfg), engine.WithLogger(loggerFor(cmd))), nil
}
