package main

import (
	"fmt"

	"github.com/printforge/meshedit"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Display mesh statistics",
	Long:  "Show vertex and face counts, bounding box, surface area, edge lengths, watertightness and volume.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := loadMesh(args[0])
	if err != nil {
		return err
	}
	info := meshedit.Analyze(m)
	fmt.Printf("File: %s\n\n", args[0])
	fmt.Printf("Vertices: %d\n", info.Vertices)
	fmt.Printf("Faces:    %d\n", info.Faces)
	fmt.Printf("Edges:    %d\n\n", info.EdgeCount)
	fmt.Println("Bounding Box:")
	fmt.Printf("  Min:    (%.4f, %.4f, %.4f)\n", info.Bounds.Min.X, info.Bounds.Min.Y, info.Bounds.Min.Z)
	fmt.Printf("  Max:    (%.4f, %.4f, %.4f)\n", info.Bounds.Max.X, info.Bounds.Max.Y, info.Bounds.Max.Z)
	fmt.Printf("  Size:   (%.4f, %.4f, %.4f)\n\n", info.Extents.X, info.Extents.Y, info.Extents.Z)
	fmt.Printf("Edge length:  min %.6f  max %.6f  avg %.6f\n", info.MinEdgeLen, info.MaxEdgeLen, info.AvgEdgeLen)
	fmt.Printf("Surface area: %.6f\n", info.SurfaceArea)
	fmt.Printf("Watertight:   %v\n", info.Watertight)
	if info.Watertight {
		fmt.Printf("Volume:       %.6f\n", info.Volume)
	}
	return nil
}
