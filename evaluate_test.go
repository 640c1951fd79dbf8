package pipeline

import (
	"encoding/json"
	"errors"
	"reflect"
	"slices"
	"testing"
)

func nodes(types ...string) []Node {
	out := make([]Node, 0, len(types)/2)
	for i := 0; i+1 < len(types); i += 2 {
		out = append(out, Node{ID: types[i], Type: types[i+1]})
	}
	return out
}

func edge(id, from, to string) Edge {
	return Edge{ID: id, Source: from, Target: to}
}

func TestEvaluateEmpty(t *testing.T) {
	report, err := Evaluate([]Node{}, []Edge{})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	want := Report{
		NumNodes:    0,
		NumEdges:    0,
		IsDAG:       true,
		HasCycles:   false,
		IsConnected: true,
		NodeTypes:   []string{},
		Status:      StatusSuccess,
	}
	if !reflect.DeepEqual(report, want) {
		t.Errorf("Evaluate() = %+v, want %+v", report, want)
	}
}

func TestEvaluateNilInputs(t *testing.T) {
	report, err := Evaluate(nil, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if report.NodeTypes == nil {
		t.Error("NodeTypes is nil, want empty slice")
	}
	if !report.IsDAG || !report.IsConnected {
		t.Errorf("Evaluate(nil, nil) = %+v, want DAG and connected", report)
	}
}

func TestEvaluateScenarios(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		edges []Edge
		want  Report
	}{
		{
			name:  "single node",
			nodes: nodes("A", "input"),
			want:  Report{NumNodes: 1, NumEdges: 0, IsDAG: true, IsConnected: true, NodeTypes: []string{"input"}},
		},
		{
			name:  "chain",
			nodes: nodes("A", "input", "B", "process", "C", "output"),
			edges: []Edge{edge("e1", "A", "B"), edge("e2", "B", "C")},
			want:  Report{NumNodes: 3, NumEdges: 2, IsDAG: true, IsConnected: true, NodeTypes: []string{"input", "output", "process"}},
		},
		{
			name:  "two node cycle",
			nodes: nodes("A", "input", "B", "output"),
			edges: []Edge{edge("e1", "A", "B"), edge("e2", "B", "A")},
			want:  Report{NumNodes: 2, NumEdges: 2, HasCycles: true, IsConnected: true, NodeTypes: []string{"input", "output"}},
		},
		{
			name:  "self loop",
			nodes: nodes("A", "llm"),
			edges: []Edge{edge("e1", "A", "A")},
			want:  Report{NumNodes: 1, NumEdges: 1, HasCycles: true, IsConnected: true, NodeTypes: []string{"llm"}},
		},
		{
			name:  "disconnected pair",
			nodes: nodes("A", "input", "B", "input"),
			want:  Report{NumNodes: 2, NumEdges: 0, IsDAG: true, IsConnected: false, NodeTypes: []string{"input"}},
		},
		{
			name:  "dangling edge target",
			nodes: nodes("A", "input"),
			edges: []Edge{edge("e1", "A", "Z")},
			want:  Report{NumNodes: 1, NumEdges: 1, IsDAG: true, IsConnected: true, NodeTypes: []string{"input"}},
		},
		{
			name:  "dangling edge disconnected from declared node",
			nodes: nodes("A", "input"),
			edges: []Edge{edge("e1", "X", "Y")},
			want:  Report{NumNodes: 1, NumEdges: 1, IsDAG: true, IsConnected: false, NodeTypes: []string{"input"}},
		},
		{
			name:  "cycle through undeclared nodes",
			nodes: nodes("A", "input"),
			edges: []Edge{edge("e1", "A", "X"), edge("e2", "X", "Y"), edge("e3", "Y", "X")},
			want:  Report{NumNodes: 1, NumEdges: 3, HasCycles: true, IsConnected: true, NodeTypes: []string{"input"}},
		},
		{
			name:  "edges without nodes are vacuously connected",
			edges: []Edge{edge("e1", "X", "Y"), edge("e2", "P", "Q")},
			want:  Report{NumNodes: 0, NumEdges: 2, IsDAG: true, IsConnected: true, NodeTypes: []string{}},
		},
		{
			name:  "diamond",
			nodes: nodes("A", "input", "B", "llm", "C", "text", "D", "output"),
			edges: []Edge{edge("e1", "A", "B"), edge("e2", "A", "C"), edge("e3", "B", "D"), edge("e4", "C", "D")},
			want:  Report{NumNodes: 4, NumEdges: 4, IsDAG: true, IsConnected: true, NodeTypes: []string{"input", "llm", "output", "text"}},
		},
		{
			name:  "weakly but not strongly connected",
			nodes: nodes("A", "input", "B", "input", "C", "output"),
			edges: []Edge{edge("e1", "A", "C"), edge("e2", "B", "C")},
			want:  Report{NumNodes: 3, NumEdges: 2, IsDAG: true, IsConnected: true, NodeTypes: []string{"input", "output"}},
		},
		{
			name:  "duplicate node ids",
			nodes: nodes("A", "input", "A", "output"),
			want:  Report{NumNodes: 2, NumEdges: 0, IsDAG: true, IsConnected: true, NodeTypes: []string{"input", "output"}},
		},
		{
			name:  "parallel edges",
			nodes: nodes("A", "input", "B", "output"),
			edges: []Edge{edge("e1", "A", "B"), edge("e2", "A", "B")},
			want:  Report{NumNodes: 2, NumEdges: 2, IsDAG: true, IsConnected: true, NodeTypes: []string{"input", "output"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.nodes, tt.edges)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}

			tt.want.IsDAG = !tt.want.HasCycles
			tt.want.Status = StatusSuccess
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Evaluate() = %+v, want %+v", got, tt.want)
			}
			if got.HasCycles == got.IsDAG {
				t.Errorf("HasCycles = %v must be the negation of IsDAG = %v", got.HasCycles, got.IsDAG)
			}
		})
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	n := nodes("A", "input", "B", "llm", "C", "output")
	e := []Edge{edge("e1", "A", "B"), edge("e2", "B", "C"), edge("e3", "C", "A")}

	first, err := Evaluate(n, e)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	second, err := Evaluate(n, e)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second Evaluate() = %+v, want %+v", second, first)
	}
}

func TestEvaluateDoesNotMutateInput(t *testing.T) {
	n := []Node{
		{ID: "B", Type: "output", Position: json.RawMessage(`{"x":1,"y":2}`), Data: json.RawMessage(`{"k":"v"}`)},
		{ID: "A", Type: "input"},
	}
	e := []Edge{edge("e1", "A", "B"), edge("e2", "A", "Z")}

	nodesBefore := slices.Clone(n)
	edgesBefore := slices.Clone(e)

	if _, err := Evaluate(n, e); err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !reflect.DeepEqual(n, nodesBefore) {
		t.Errorf("nodes mutated: %+v, want %+v", n, nodesBefore)
	}
	if !reflect.DeepEqual(e, edgesBefore) {
		t.Errorf("edges mutated: %+v, want %+v", e, edgesBefore)
	}
}

func TestEvaluatorLimits(t *testing.T) {
	ev := Evaluator{MaxNodes: 2, MaxEdges: 1}

	_, err := ev.Evaluate(nodes("A", "x", "B", "x", "C", "x"), nil)
	var procErr *ProcessingError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected *ProcessingError, got %v", err)
	}
	if !errors.Is(err, ErrTooManyNodes) {
		t.Errorf("expected ErrTooManyNodes, got %v", err)
	}

	_, err = ev.Evaluate(nodes("A", "x"), []Edge{edge("e1", "A", "B"), edge("e2", "B", "A")})
	if !errors.Is(err, ErrTooManyEdges) {
		t.Errorf("expected ErrTooManyEdges, got %v", err)
	}

	if _, err := ev.Evaluate(nodes("A", "x", "B", "y"), []Edge{edge("e1", "A", "B")}); err != nil {
		t.Errorf("Evaluate() at limit error = %v", err)
	}
}

func TestProcessingErrorMessage(t *testing.T) {
	cause := errors.New("boom")
	err := &ProcessingError{Err: cause}

	if got, want := err.Error(), "Error processing pipeline: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("ProcessingError should unwrap to its cause")
	}
}
