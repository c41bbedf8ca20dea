package meshedit

import (
	"errors"
	"testing"

	"github.com/printforge/meshedit/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// stubEngine returns a fixed result or error, for chain tests.
type stubEngine struct {
	name string
	out  *Mesh
	err  error
}

func (e stubEngine) Name() string { return e.name }
func (e stubEngine) Boolean(a, b *Mesh, op Op) (*Mesh, error) {
	return e.out, e.err
}

func TestChainFallsThroughToSuccess(t *testing.T) {
	want := boxMesh(r3.Vec{}, d3.Elem(1))
	chain := Chain{
		stubEngine{name: "first", err: errors.New("boom")},
		stubEngine{name: "second", out: nil}, // empty result counts as failure
		stubEngine{name: "third", out: want},
	}
	res := chain.Run(nil, nil, OpDifference)
	if !res.OK() {
		t.Fatalf("chain failed: %s", res.FailureReason())
	}
	if res.Engine != "third" {
		t.Errorf("engine: got %q, want %q", res.Engine, "third")
	}
	if len(res.Attempts) != 3 {
		t.Errorf("attempts: got %d, want 3", len(res.Attempts))
	}
	if res.Mesh != want {
		t.Error("chain returned wrong mesh")
	}
}

func TestChainAllFail(t *testing.T) {
	chain := Chain{
		stubEngine{name: "a", err: errors.New("x")},
		stubEngine{name: "b", err: errors.New("y")},
	}
	res := chain.Run(nil, nil, OpUnion)
	if res.OK() {
		t.Fatal("chain reported success with no result")
	}
	reason := res.FailureReason()
	if reason == "" {
		t.Fatal("empty failure reason")
	}
	for _, name := range []string{"a", "b"} {
		found := false
		for _, at := range res.Attempts {
			if at.Engine == name && at.Err != nil {
				found = true
			}
		}
		if !found {
			t.Errorf("attempt for engine %q missing", name)
		}
	}
}

func TestChainRejectsLeakingEngine(t *testing.T) {
	a := boxMesh(r3.Vec{}, d3.Elem(2))
	b := boxMesh(r3.Vec{X: 1}, d3.Elem(2))
	open := FromTriangles(a.Triangles()[:10], 0)
	want := boxMesh(r3.Vec{}, d3.Elem(1))
	chain := Chain{
		stubEngine{name: "leaky", out: open},
		stubEngine{name: "sound", out: want},
	}

	res := chain.Run(a, b, OpDifference)
	if !res.OK() {
		t.Fatalf("chain failed: %s", res.FailureReason())
	}
	if res.Engine != "sound" {
		t.Errorf("open result from watertight operands must fail the tier; chain used %q", res.Engine)
	}
	if len(res.Attempts) == 0 || res.Attempts[0].Err == nil {
		t.Error("leaking attempt must record an error")
	}

	// Open operands carry no watertightness promise, so an open result
	// passes through.
	res = chain.Run(open, b, OpDifference)
	if res.Engine != "leaky" {
		t.Errorf("open operand: chain used %q, want the first engine", res.Engine)
	}
}

func TestChainImplementsEngine(t *testing.T) {
	var _ Engine = Chain{}
	chain := Chain{stubEngine{name: "a", err: errors.New("x")}}
	if _, err := chain.Boolean(nil, nil, OpIntersection); !errors.Is(err, ErrGeometryOperation) {
		t.Errorf("chain failure error: got %v, want ErrGeometryOperation", err)
	}
}

func TestOpString(t *testing.T) {
	cases := map[Op]string{OpUnion: "union", OpDifference: "difference", OpIntersection: "intersection"}
	for op, want := range cases {
		if got := op.String(); got != want {
			t.Errorf("op %d: got %q, want %q", int(op), got, want)
		}
	}
}
