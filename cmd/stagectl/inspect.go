package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inamate/stage/internal/engine"
	"github.com/inamate/stage/internal/geometry"
	"github.com/inamate/stage/internal/scene"
)

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List the operations a script may use",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range engine.Operations() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

// Outline is the hit and stroke outline of one element in world coordinates.
type Outline struct {
	ID     string           `json:"id"`
	Type   scene.Kind       `json:"type"`
	Bounds geometry.Rect    `json:"bounds"`
	Points []geometry.Point `json:"points"`
}

func outlines(store *scene.Store) []Outline {
	var out []Outline
	for _, el := range store.Elements() {
		m := el.Model()
		out = append(out, Outline{
			ID:     m.ID,
			Type:   m.Type,
			Bounds: el.Bounds(),
			Points: scene.CapabilityOf(m.Type).Outline(el),
		})
	}
	return out
}

var outlineCmd = &cobra.Command{
	Use:   "outline <scene.json>",
	Short: "Print the stroked outline of every element",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readScene(args[0])
		if err != nil {
			return err
		}
		eng, err := newSession(cmd)
		if err != nil {
			return err
		}
		if err := eng.LoadDocument(doc); err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), outlines(eng.Store()))
	},
}

func init() {
	rootCmd.AddCommand(opsCmd)
	rootCmd.AddCommand(outlineCmd)
}
