package pipeline

import "encoding/json"

// StatusSuccess is the status carried by every successful Report.
const StatusSuccess = "success"

// Request is a pipeline submitted for evaluation.
type Request struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node represents a pipeline stage.
// Position and Data are carried through untouched; the evaluator never reads them.
type Node struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Position json.RawMessage `json:"position"`
	Data     json.RawMessage `json:"data"`

	missing []string // JSON fields absent or null when decoded
}

// UnmarshalJSON decodes a node, remembering which string fields were absent
// so that Validate can tell a missing id from an empty one.
func (n *Node) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID       *string         `json:"id"`
		Type     *string         `json:"type"`
		Position json.RawMessage `json:"position"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*n = Node{Position: raw.Position, Data: raw.Data}
	n.ID = presentOr(raw.ID, "id", &n.missing)
	n.Type = presentOr(raw.Type, "type", &n.missing)
	return nil
}

// Edge represents a directed connection Source -> Target between two nodes.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle"`
	TargetHandle string `json:"targetHandle"`

	missing []string // JSON fields absent or null when decoded
}

// UnmarshalJSON decodes an edge, remembering which fields were absent.
func (e *Edge) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID           *string `json:"id"`
		Source       *string `json:"source"`
		Target       *string `json:"target"`
		SourceHandle *string `json:"sourceHandle"`
		TargetHandle *string `json:"targetHandle"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*e = Edge{}
	e.ID = presentOr(raw.ID, "id", &e.missing)
	e.Source = presentOr(raw.Source, "source", &e.missing)
	e.Target = presentOr(raw.Target, "target", &e.missing)
	e.SourceHandle = presentOr(raw.SourceHandle, "sourceHandle", &e.missing)
	e.TargetHandle = presentOr(raw.TargetHandle, "targetHandle", &e.missing)
	return nil
}

func presentOr(v *string, field string, missing *[]string) string {
	if v == nil {
		*missing = append(*missing, field)
		return ""
	}
	return *v
}

// Report summarizes the structure of an evaluated pipeline.
type Report struct {
	NumNodes    int      `json:"num_nodes"`
	NumEdges    int      `json:"num_edges"`
	IsDAG       bool     `json:"is_dag"`
	HasCycles   bool     `json:"has_cycles"`
	IsConnected bool     `json:"is_connected"`
	NodeTypes   []string `json:"node_types"`
	Status      string   `json:"status"`
}
