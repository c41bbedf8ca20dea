package main

import (
	"fmt"

	"github.com/printforge/meshedit"
	"github.com/spf13/cobra"
)

var repairFlags struct {
	aggressive bool
	refill     bool
	hull       bool
	areaEps    float64
	mergeTol   float64
	output     string
}

var repairCmd = &cobra.Command{
	Use:   "repair <file>",
	Short: "Run the mesh repair pipeline",
	Long: `Remove degenerate and duplicate faces, reorient windings, fill
boundary holes, handle non-manifold edges, drop unreferenced vertices
and weld nearby vertices. With --hull the mesh is replaced by its
convex hull if repair alone cannot close it.`,
	Args: cobra.ExactArgs(1),
	RunE: runRepair,
}

func init() {
	repairCmd.Flags().BoolVar(&repairFlags.aggressive, "aggressive", false, "delete faces touching non-manifold edges")
	repairCmd.Flags().BoolVar(&repairFlags.refill, "refill", false, "fill holes again after aggressive deletion")
	repairCmd.Flags().BoolVar(&repairFlags.hull, "hull", false, "fall back to the convex hull if still not watertight (lossy)")
	repairCmd.Flags().Float64Var(&repairFlags.areaEps, "area-eps", 0, "degenerate face area threshold (0 = default)")
	repairCmd.Flags().Float64Var(&repairFlags.mergeTol, "merge-tol", 0, "vertex weld tolerance (0 = default)")
	repairCmd.Flags().StringVarP(&repairFlags.output, "output", "o", "", "output file (required)")
	repairCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, args []string) error {
	m, err := loadMesh(args[0])
	if err != nil {
		return err
	}
	var (
		out *meshedit.Mesh
		rep meshedit.RepairReport
	)
	if repairFlags.hull {
		out, rep, err = meshedit.MakeWatertight(m, true)
	} else {
		out, rep, err = meshedit.RepairAll(m, meshedit.RepairOptions{
			DegenerateAreaEps:     repairFlags.areaEps,
			MergeTolerance:        repairFlags.mergeTol,
			Aggressive:            repairFlags.aggressive,
			RefillAfterAggressive: repairFlags.refill,
		})
	}
	if err != nil {
		return err
	}
	for _, line := range rep.Log {
		fmt.Println(line)
	}
	reportStats(rep.Stats)
	return saveMesh(repairFlags.output, out)
}
