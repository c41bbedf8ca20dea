package main

import (
	"github.com/printforge/meshedit"
	"github.com/spf13/cobra"
)

var mirrorFlags struct {
	axis   string
	merge  bool
	output string
}

var mirrorCmd = &cobra.Command{
	Use:   "mirror <file>",
	Short: "Reflect a mesh about its bounding box center plane",
	Args:  cobra.ExactArgs(1),
	RunE:  runMirror,
}

var symmetrizeFlags struct {
	axis   string
	keep   string
	auto   bool
	output string
}

var symmetrizeCmd = &cobra.Command{
	Use:   "symmetrize <file>",
	Short: "Make a mesh symmetric by mirroring one half onto the other",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymmetrize,
}

func init() {
	mirrorCmd.Flags().StringVar(&mirrorFlags.axis, "axis", "x", "mirror axis: x, y or z")
	mirrorCmd.Flags().BoolVar(&mirrorFlags.merge, "merge", false, "keep the original and append the reflection")
	mirrorCmd.Flags().StringVarP(&mirrorFlags.output, "output", "o", "", "output file (required)")
	mirrorCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(mirrorCmd)

	symmetrizeCmd.Flags().StringVar(&symmetrizeFlags.axis, "axis", "x", "symmetry axis: x, y or z")
	symmetrizeCmd.Flags().StringVar(&symmetrizeFlags.keep, "keep", "positive", "side to keep: positive or negative")
	symmetrizeCmd.Flags().BoolVar(&symmetrizeFlags.auto, "auto", false, "pick the axis of largest extent")
	symmetrizeCmd.Flags().StringVarP(&symmetrizeFlags.output, "output", "o", "", "output file (required)")
	symmetrizeCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(symmetrizeCmd)
}

func runMirror(cmd *cobra.Command, args []string) error {
	axis, err := meshedit.ParseAxis(mirrorFlags.axis)
	if err != nil {
		return err
	}
	m, err := loadMesh(args[0])
	if err != nil {
		return err
	}
	out, stats, err := meshedit.Mirror(m, axis, mirrorFlags.merge)
	if err != nil {
		return err
	}
	reportStats(stats)
	return saveMesh(mirrorFlags.output, out)
}

func runSymmetrize(cmd *cobra.Command, args []string) error {
	m, err := loadMesh(args[0])
	if err != nil {
		return err
	}
	var (
		out   *meshedit.Mesh
		stats meshedit.Stats
	)
	if symmetrizeFlags.auto {
		out, stats, err = meshedit.AutoSymmetrize(m)
	} else {
		var axis meshedit.Axis
		var keep meshedit.Side
		if axis, err = meshedit.ParseAxis(symmetrizeFlags.axis); err != nil {
			return err
		}
		if keep, err = meshedit.ParseSide(symmetrizeFlags.keep); err != nil {
			return err
		}
		out, stats, err = meshedit.Symmetrize(m, axis, keep)
	}
	if err != nil {
		return err
	}
	reportStats(stats)
	return saveMesh(symmetrizeFlags.output, out)
}
