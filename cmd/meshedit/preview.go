package main

import (
	"github.com/printforge/meshedit/preview"
	"github.com/spf13/cobra"
)

var previewFlags struct {
	output string
}

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Render a mesh to a PNG image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMesh(args[0])
		if err != nil {
			return err
		}
		return preview.RenderPNG(m, previewFlags.output, preview.DefaultView())
	},
}

func init() {
	previewCmd.Flags().StringVarP(&previewFlags.output, "output", "o", "preview.png", "output PNG file")
	rootCmd.AddCommand(previewCmd)
}
