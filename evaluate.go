package pipeline

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrTooManyNodes = errors.New("pipeline: too many nodes")
	ErrTooManyEdges = errors.New("pipeline: too many edges")
)

// ProcessingError is returned for any failure while evaluating a pipeline.
type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string {
	return "Error processing pipeline: " + e.Err.Error()
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// Evaluator computes structural properties of pipelines.
// MaxNodes and MaxEdges bound the accepted input; zero means unlimited.
type Evaluator struct {
	MaxNodes int
	MaxEdges int
}

// Evaluate reports the structure of nodes and edges using an unlimited Evaluator.
func Evaluate(nodes []Node, edges []Edge) (Report, error) {
	return Evaluator{}.Evaluate(nodes, edges)
}

// Evaluate builds a Graph from nodes and edges and reports its structure.
// Every failure is returned as a *ProcessingError.
func (ev Evaluator) Evaluate(nodes []Node, edges []Edge) (report Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			report = Report{}
			err = &ProcessingError{Err: fmt.Errorf("%v", r)}
		}
	}()

	if ev.MaxNodes > 0 && len(nodes) > ev.MaxNodes {
		return Report{}, &ProcessingError{Err: fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyNodes, len(nodes), ev.MaxNodes)}
	}
	if ev.MaxEdges > 0 && len(edges) > ev.MaxEdges {
		return Report{}, &ProcessingError{Err: fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyEdges, len(edges), ev.MaxEdges)}
	}

	g := NewGraph(nodes, edges)

	isDAG := g.IsDAG()
	isConnected := true
	if len(nodes) > 0 {
		isConnected = g.IsWeaklyConnected()
	}

	return Report{
		NumNodes:    len(nodes),
		NumEdges:    len(edges),
		IsDAG:       isDAG,
		HasCycles:   !isDAG,
		IsConnected: isConnected,
		NodeTypes:   nodeTypes(nodes),
		Status:      StatusSuccess,
	}, nil
}

// nodeTypes returns the distinct types of nodes, sorted.
func nodeTypes(nodes []Node) []string {
	seen := make(map[string]struct{}, len(nodes))
	types := []string{}
	for _, n := range nodes {
		if _, ok := seen[n.Type]; ok {
			continue
		}
		seen[n.Type] = struct{}{}
		types = append(types, n.Type)
	}
	slices.Sort(types)
	return types
}
