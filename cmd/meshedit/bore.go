package main

import (
	"fmt"

	"github.com/printforge/meshedit"
	"github.com/printforge/meshedit/csg"
	"github.com/spf13/cobra"
)

var boreFlags struct {
	minRadius float64
	maxRadius float64
	newRadius float64
	widen     bool
	output    string
}

var boreCmd = &cobra.Command{
	Use:   "bore <file>",
	Short: "Detect through-holes and optionally widen the central one",
	Args:  cobra.ExactArgs(1),
	RunE:  runBore,
}

func init() {
	boreCmd.Flags().Float64Var(&boreFlags.minRadius, "min-radius", 1, "smallest hole radius to report")
	boreCmd.Flags().Float64Var(&boreFlags.maxRadius, "max-radius", 100, "largest hole radius to report")
	boreCmd.Flags().Float64Var(&boreFlags.newRadius, "new-radius", 0, "widen the central hole to this radius")
	boreCmd.Flags().StringVarP(&boreFlags.output, "output", "o", "", "output file (required with --new-radius)")
	rootCmd.AddCommand(boreCmd)
}

func runBore(cmd *cobra.Command, args []string) error {
	m, err := loadMesh(args[0])
	if err != nil {
		return err
	}
	holes, err := meshedit.DetectHoles(m, boreFlags.minRadius, boreFlags.maxRadius)
	if err != nil {
		return err
	}
	if len(holes) == 0 {
		fmt.Println("No holes detected.")
	}
	for i, h := range holes {
		fmt.Printf("hole %d: axis=%v radius=%.4f center=(%.4f, %.4f, %.4f)\n",
			i, h.Axis, h.Radius, h.Center.X, h.Center.Y, h.Center.Z)
	}
	if boreFlags.newRadius == 0 {
		return nil
	}
	if boreFlags.output == "" {
		return fmt.Errorf("--output is required when widening")
	}
	out, stats, err := meshedit.WidenCentralHole(m, csg.DefaultChain(), boreFlags.minRadius, boreFlags.maxRadius, boreFlags.newRadius)
	if err != nil {
		return err
	}
	reportStats(stats)
	return saveMesh(boreFlags.output, out)
}
