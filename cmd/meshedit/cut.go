package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/printforge/meshedit"
	"github.com/spf13/cobra"
)

var cutFlags struct {
	axis     string
	position float64
	mode     string
	keep     string
	cap      bool
	output   string
}

var cutCmd = &cobra.Command{
	Use:   "cut <file>",
	Short: "Split a mesh with an axis-aligned plane",
	Args:  cobra.ExactArgs(1),
	RunE:  runCut,
}

func init() {
	cutCmd.Flags().StringVar(&cutFlags.axis, "axis", "z", "cut plane axis: x, y or z")
	cutCmd.Flags().Float64Var(&cutFlags.position, "position", 50, "cut position")
	cutCmd.Flags().StringVar(&cutFlags.mode, "mode", "percentage", "position mode: absolute, percentage or center-offset")
	cutCmd.Flags().StringVar(&cutFlags.keep, "keep", "top", "part to keep: top, bottom or both")
	cutCmd.Flags().BoolVar(&cutFlags.cap, "cap", true, "close the cut boundary")
	cutCmd.Flags().StringVarP(&cutFlags.output, "output", "o", "", "output file (required)")
	cutCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(cutCmd)
}

func runCut(cmd *cobra.Command, args []string) error {
	axis, err := meshedit.ParseAxis(cutFlags.axis)
	if err != nil {
		return err
	}
	mode, err := meshedit.ParsePositionMode(cutFlags.mode)
	if err != nil {
		return err
	}
	keep, err := meshedit.ParseKeepPart(cutFlags.keep)
	if err != nil {
		return err
	}
	m, err := loadMesh(args[0])
	if err != nil {
		return err
	}
	res, err := meshedit.Cut(m, axis, cutFlags.position, mode, keep, cutFlags.cap)
	if err != nil {
		return err
	}
	reportStats(res.Stats)
	if keep == meshedit.KeepBoth {
		ext := filepath.Ext(cutFlags.output)
		base := strings.TrimSuffix(cutFlags.output, ext)
		if res.Top != nil {
			if err := saveMesh(base+"_top"+ext, res.Top); err != nil {
				return err
			}
		}
		if res.Bottom != nil {
			if err := saveMesh(base+"_bottom"+ext, res.Bottom); err != nil {
				return err
			}
		}
		return nil
	}
	if res.Mesh == nil {
		return fmt.Errorf("cut produced no mesh")
	}
	return saveMesh(cutFlags.output, res.Mesh)
}
