package main

import (
	"fmt"
	"math"
	"os"

	"github.com/printforge/meshedit"
	"github.com/printforge/meshedit/csg"
	"github.com/printforge/meshedit/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Pipeline is the YAML description of a batch edit: an input mesh, an
// ordered list of steps and an output path.
type Pipeline struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
	Steps  []Step `yaml:"steps"`
}

// Step is one pipeline operation. Only the fields relevant to Op are
// consulted; the rest stay zero.
type Step struct {
	Op string `yaml:"op"`

	Axis     string  `yaml:"axis"`
	Position float64 `yaml:"position"`
	Mode     string  `yaml:"mode"`
	Keep     string  `yaml:"keep"`
	Cap      *bool   `yaml:"cap"`

	Merge bool `yaml:"merge"`

	Aggressive bool `yaml:"aggressive"`
	Refill     bool `yaml:"refill"`
	Hull       bool `yaml:"hull"`

	Factor float64 `yaml:"factor"`
	SX     float64 `yaml:"sx"`
	SY     float64 `yaml:"sy"`
	SZ     float64 `yaml:"sz"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth"`
	Aspect *bool   `yaml:"maintain_aspect"`
	Fit    float64 `yaml:"fit"`
	Volume float64 `yaml:"volume"`

	Profile     string  `yaml:"profile"`
	Channels    int     `yaml:"channels"`
	Length      float64 `yaml:"length"`
	StartAngle  float64 `yaml:"start_angle"`
	Rotations   float64 `yaml:"rotations"`
	StartRadius float64 `yaml:"start_radius"`
	EndRadius   float64 `yaml:"end_radius"`
	Spacing     float64 `yaml:"spacing"`

	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
	NewRadius float64 `yaml:"new_radius"`
}

var runCmd = &cobra.Command{
	Use:   "run <pipeline.yaml>",
	Short: "Run a YAML pipeline of mesh operations",
	Args:  cobra.ExactArgs(1),
	RunE:  runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	if p.Input == "" || p.Output == "" {
		return fmt.Errorf("pipeline needs input and output paths")
	}
	m, err := loadMesh(p.Input)
	if err != nil {
		return err
	}
	engine := csg.DefaultChain()
	for i, step := range p.Steps {
		logger.Info("pipeline step", zap.Int("step", i), zap.String("op", step.Op))
		m, err = applyStep(m, step, engine)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}
	return saveMesh(p.Output, m)
}

func applyStep(m *meshedit.Mesh, step Step, engine meshedit.Engine) (*meshedit.Mesh, error) {
	axisOf := func(def string) (meshedit.Axis, error) {
		s := step.Axis
		if s == "" {
			s = def
		}
		return meshedit.ParseAxis(s)
	}
	switch step.Op {
	case "cut":
		axis, err := axisOf("z")
		if err != nil {
			return nil, err
		}
		mode := meshedit.Percentage
		if step.Mode != "" {
			if mode, err = meshedit.ParsePositionMode(step.Mode); err != nil {
				return nil, err
			}
		}
		keep := meshedit.KeepTop
		if step.Keep != "" {
			if keep, err = meshedit.ParseKeepPart(step.Keep); err != nil {
				return nil, err
			}
		}
		if keep == meshedit.KeepBoth {
			return nil, fmt.Errorf("keep=both is not supported in pipelines")
		}
		cap := true
		if step.Cap != nil {
			cap = *step.Cap
		}
		res, err := meshedit.Cut(m, axis, step.Position, mode, keep, cap)
		if err != nil {
			return nil, err
		}
		reportStats(res.Stats)
		return res.Mesh, nil
	case "mirror":
		axis, err := axisOf("x")
		if err != nil {
			return nil, err
		}
		out, stats, err := meshedit.Mirror(m, axis, step.Merge)
		reportIfOK(stats, err)
		return out, err
	case "symmetrize":
		axis, err := axisOf("x")
		if err != nil {
			return nil, err
		}
		keep := meshedit.SidePositive
		if step.Keep != "" {
			if keep, err = meshedit.ParseSide(step.Keep); err != nil {
				return nil, err
			}
		}
		out, stats, err := meshedit.Symmetrize(m, axis, keep)
		reportIfOK(stats, err)
		return out, err
	case "repair":
		out, rep, err := meshedit.RepairAll(m, meshedit.RepairOptions{
			Aggressive:            step.Aggressive,
			RefillAfterAggressive: step.Refill,
		})
		if err != nil {
			return nil, err
		}
		for _, line := range rep.Log {
			logger.Debug(line)
		}
		reportStats(rep.Stats)
		return out, nil
	case "make_watertight":
		out, rep, err := meshedit.MakeWatertight(m, step.Hull)
		if err != nil {
			return nil, err
		}
		reportStats(rep.Stats)
		return out, nil
	case "scale_uniform":
		out, stats, err := meshedit.ScaleUniform(m, step.Factor)
		reportIfOK(stats, err)
		return out, err
	case "scale_non_uniform":
		out, stats, err := meshedit.ScaleNonUniform(m, orOne(step.SX), orOne(step.SY), orOne(step.SZ))
		reportIfOK(stats, err)
		return out, err
	case "scale_to_dimensions":
		aspect := true
		if step.Aspect != nil {
			aspect = *step.Aspect
		}
		out, stats, err := meshedit.ScaleToDimensions(m, orNaN(step.Width), orNaN(step.Height), orNaN(step.Depth), aspect)
		reportIfOK(stats, err)
		return out, err
	case "scale_to_fit":
		out, stats, err := meshedit.ScaleToFit(m, step.Fit)
		reportIfOK(stats, err)
		return out, err
	case "scale_to_volume":
		out, stats, err := meshedit.ScaleToVolume(m, step.Volume)
		reportIfOK(stats, err)
		return out, err
	case "carve_radial":
		params := meshedit.ChannelParams{Width: step.Width, Depth: step.Depth}
		if step.Profile != "" {
			var err error
			if params.Profile, err = meshedit.ParseProfile(step.Profile); err != nil {
				return nil, err
			}
		}
		bb := m.Bounds()
		top := bb.Center()
		top.Z = bb.Max.Z
		length := step.Length
		if length == 0 {
			length = math.Min(bb.Size().X, bb.Size().Y) / 2
		}
		out, stats, err := meshedit.CarveRadial(m, engine, top, step.Channels, length, step.StartAngle, params)
		reportIfOK(stats, err)
		return out, err
	case "widen_hole":
		out, stats, err := meshedit.WidenCentralHole(m, engine, step.MinRadius, step.MaxRadius, step.NewRadius)
		reportIfOK(stats, err)
		return out, err
	}
	return nil, fmt.Errorf("unknown op %q", step.Op)
}

func reportIfOK(stats meshedit.Stats, err error) {
	if err == nil {
		reportStats(stats)
	}
}
