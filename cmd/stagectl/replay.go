package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inamate/stage/internal/document"
	"github.com/inamate/stage/internal/engine"
	"github.com/inamate/stage/internal/export"
)

// Script is a replayable editing session.
type Script struct {
	Name string `yaml:"name"`
	// Scene is a path to a scene JSON file, relative to the working directory.
	Scene      string             `yaml:"scene"`
	Sample     bool               `yaml:"sample"`
	Operations []engine.Operation `yaml:"operations"`
}

func parseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i, op := range s.Operations {
		if op.Type == "" {
			return nil, fmt.Errorf("parse script: operation %d has no type", i+1)
		}
	}
	return &s, nil
}

// Step is the outcome of one replayed operation.
type Step struct {
	Index  int           `json:"index"`
	Type   string        `json:"type"`
	Result engine.Result `json:"result"`
}

// replay loads the script's starting scene and applies every operation,
// ticking after each one like a frontend would. It stops at the first
// failing operation.
func replay(eng *engine.Engine, s *Script) ([]Step, error) {
	switch {
	case s.Scene != "":
		doc, err := readScene(s.Scene)
		if err != nil {
			return nil, err
		}
		if err := eng.LoadDocument(doc); err != nil {
			return nil, err
		}
	case s.Sample:
		eng.LoadSampleDocument()
	}

	steps := make([]Step, 0, len(s.Operations))
	for i, op := range s.Operations {
		res, err := eng.Apply(op)
		if err != nil {
			return steps, fmt.Errorf("operation %d: %w", i+1, err)
		}
		eng.Tick()
		steps = append(steps, Step{Index: i + 1, Type: op.Type, Result: res})
	}
	return steps, nil
}

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay a scripted editing session",
	Long: `Applies the operations of a YAML script to an editor session and
writes the resulting scene as JSON. Use --steps to print what each
operation did instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		script, err := parseScript(data)
		if err != nil {
			return err
		}
		eng, err := newSession(cmd)
		if err != nil {
			return err
		}

		steps, err := replay(eng, script)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("out"); path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			out = f
		}

		if showSteps, _ := cmd.Flags().GetBool("steps"); showSteps {
			return writeJSON(out, steps)
		}
		doc := eng.Document()
		if script.Name != "" {
			doc.Name = script.Name
		}
		if err := writeJSON(out, doc); err != nil {
			return err
		}

		if png, _ := cmd.Flags().GetString("png"); png != "" {
			return writePNG(png, doc, eng, cmd)
		}
		return nil
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writePNG(path string, doc *document.Document, eng *engine.Engine, cmd *cobra.Command) error {
	width, _ := cmd.Flags().GetInt("width")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	defer f.Close()
	return export.RenderPNG(f, doc, eng.Config(), width)
}

func init() {
	replayCmd.Flags().StringP("out", "o", "", "Write output to a file instead of stdout")
	replayCmd.Flags().Bool("steps", false, "Print the result of each operation")
	replayCmd.Flags().String("png", "", "Also render the resulting scene to this PNG file")
	replayCmd.Flags().Int("width", 0, "Thumbnail width for --png (0 renders at stage size)")
	rootCmd.AddCommand(replayCmd)
}
