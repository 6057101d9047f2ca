package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inamate/stage/internal/export"
)

var renderCmd = &cobra.Command{
	Use:   "render <scene.json> <out.png>",
	Short: "Render a scene to PNG",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readScene(args[0])
		if err != nil {
			return err
		}
		cfg, err := editorConfig()
		if err != nil {
			return err
		}
		width, _ := cmd.Flags().GetInt("width")

		f, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("create png: %w", err)
		}
		defer f.Close()
		return export.RenderPNG(f, doc, cfg, width)
	},
}

func init() {
	renderCmd.Flags().Int("width", 0, "Thumbnail width (0 renders at stage size)")
	rootCmd.AddCommand(renderCmd)
}
