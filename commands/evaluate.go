package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/meikuraledutech/pipeline"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	evaluateFormat   string
	evaluateMaxNodes int
	evaluateMaxEdges int
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <pipeline-file>",
	Short: "Evaluate a pipeline file",
	Long: `Evaluate a JSON or YAML pipeline file and print its report.

Examples:
  pipeline evaluate flow.json
  pipeline evaluate flow.yaml --format text`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVar(&evaluateFormat, "format", "json", "Output format: json, text")
	evaluateCmd.Flags().IntVar(&evaluateMaxNodes, "max-nodes", 0, "Reject pipelines with more nodes (0 = unlimited)")
	evaluateCmd.Flags().IntVar(&evaluateMaxEdges, "max-edges", 0, "Reject pipelines with more edges (0 = unlimited)")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	out := io.Writer(os.Stdout)
	if cmd != nil {
		out = cmd.OutOrStdout()
	}

	req, err := pipeline.LoadRequest(args[0])
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ev := pipeline.Evaluator{MaxNodes: evaluateMaxNodes, MaxEdges: evaluateMaxEdges}
	report, err := ev.Evaluate(req.Nodes, req.Edges)
	if err != nil {
		return err
	}

	switch evaluateFormat {
	case "json":
		return writeJSON(out, report)
	case "text":
		writeText(out, report)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (use 'json' or 'text')", evaluateFormat)
	}
}

// writeJSON indents the report only when out is an interactive terminal.
func writeJSON(out io.Writer, report pipeline.Report) error {
	enc := json.NewEncoder(out)
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}

func writeText(out io.Writer, report pipeline.Report) {
	fmt.Fprintf(out, "nodes:      %d\n", report.NumNodes)
	fmt.Fprintf(out, "edges:      %d\n", report.NumEdges)
	fmt.Fprintf(out, "dag:        %t\n", report.IsDAG)
	fmt.Fprintf(out, "cycles:     %t\n", report.HasCycles)
	fmt.Fprintf(out, "connected:  %t\n", report.IsConnected)
	fmt.Fprintf(out, "node types: %s\n", strings.Join(report.NodeTypes, ", "))
}
