package meshedit

import "fmt"

// Op is a boolean operation between two solid meshes.
type Op int

const (
	OpUnion Op = iota
	OpDifference
	OpIntersection
)

func (op Op) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	}
	return "op(" + fmt.Sprint(int(op)) + ")"
}

// Engine performs boolean operations between two solid meshes. Engines
// report failure with an error; they never panic on valid meshes.
// Implementations live in the csg package.
type Engine interface {
	Name() string
	Boolean(a, b *Mesh, op Op) (*Mesh, error)
}

// ChainAttempt records one engine's outcome while evaluating a Chain.
type ChainAttempt struct {
	Engine string
	Err    error
}

// ChainResult is the tagged result of evaluating a fallback chain:
// either a mesh plus the engine that produced it, or the per-engine
// failure reasons.
type ChainResult struct {
	Mesh     *Mesh
	Engine   string
	Attempts []ChainAttempt
}

// OK reports whether any engine produced a mesh.
func (r ChainResult) OK() bool { return r.Mesh != nil }

// FailureReason summarizes all attempts for diagnostics.
func (r ChainResult) FailureReason() string {
	if r.OK() {
		return ""
	}
	if len(r.Attempts) == 0 {
		return "no boolean engines configured"
	}
	s := "all boolean engines failed:"
	for _, a := range r.Attempts {
		s += fmt.Sprintf(" %s: %v;", a.Engine, a.Err)
	}
	return s
}

// Chain is an ordered list of boolean engines evaluated until one
// succeeds. It implements Engine itself so a chain can stand wherever a
// single engine is expected.
type Chain []Engine

// Run evaluates the chain in priority order and returns a tagged result.
// A nil, empty or leaking result from an engine counts as that engine
// failing; the chain then advances. Leaking means the engine turned two
// watertight operands into an open surface, which would make every
// downstream volume measurement undefined.
func (c Chain) Run(a, b *Mesh, op Op) ChainResult {
	var res ChainResult
	sealed := a != nil && b != nil && a.IsWatertight() && b.IsWatertight()
	for _, eng := range c {
		m, err := eng.Boolean(a, b, op)
		if err == nil && (m == nil || m.IsEmpty()) {
			err = geomFailf("%s produced an empty mesh", eng.Name())
		}
		if err == nil && sealed && !m.IsWatertight() {
			err = geomFailf("%s lost watertightness on watertight operands", eng.Name())
		}
		if err != nil {
			res.Attempts = append(res.Attempts, ChainAttempt{Engine: eng.Name(), Err: err})
			continue
		}
		res.Mesh = m
		res.Engine = eng.Name()
		res.Attempts = append(res.Attempts, ChainAttempt{Engine: eng.Name()})
		return res
	}
	return res
}

// Name implements Engine.
func (c Chain) Name() string { return "chain" }

// Boolean implements Engine by evaluating the chain.
func (c Chain) Boolean(a, b *Mesh, op Op) (*Mesh, error) {
	res := c.Run(a, b, op)
	if !res.OK() {
		return nil, geomFailf("%s", res.FailureReason())
	}
	return res.Mesh, nil
}
