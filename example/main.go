package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/pipeline"
	"github.com/meikuraledutech/pipeline/memory"
	"github.com/meikuraledutech/pipeline/postgres"
)

func main() {
	ctx := context.Background()

	// Keep history in Postgres when DATABASE_URL is set, otherwise in memory.
	var store pipeline.Store = memory.New()
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			log.Fatalf("connect: %v", err)
		}
		defer pool.Close()
		store = postgres.New(pool)
	}

	// 1. Create tables
	if err := store.CreateSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}
	fmt.Println("schema created")

	// ── A simple chain ────────────────────────────────────────────────
	chain := []pipeline.Node{
		{ID: "input-1", Type: "customInput", Position: json.RawMessage(`{"x": 0, "y": 0}`), Data: json.RawMessage(`{"inputName": "prompt"}`)},
		{ID: "llm-1", Type: "llm", Position: json.RawMessage(`{"x": 250, "y": 0}`), Data: json.RawMessage(`{}`)},
		{ID: "output-1", Type: "customOutput", Position: json.RawMessage(`{"x": 500, "y": 0}`), Data: json.RawMessage(`{"outputName": "answer"}`)},
	}
	chainEdges := []pipeline.Edge{
		{ID: "e1", Source: "input-1", Target: "llm-1", SourceHandle: "input-1-value", TargetHandle: "llm-1-prompt"},
		{ID: "e2", Source: "llm-1", Target: "output-1", SourceHandle: "llm-1-response", TargetHandle: "output-1-value"},
	}
	evaluate(ctx, store, "chain", chain, chainEdges)

	// ── A feedback loop ───────────────────────────────────────────────
	loopEdges := append(chainEdges, pipeline.Edge{ID: "e3", Source: "output-1", Target: "input-1"})
	evaluate(ctx, store, "loop", chain, loopEdges)

	// ── An edge to an undeclared node ─────────────────────────────────
	dangling := []pipeline.Edge{{ID: "e1", Source: "input-1", Target: "ghost"}}
	evaluate(ctx, store, "dangling", chain[:1], dangling)

	// ── History ───────────────────────────────────────────────────────
	history, err := store.ListEvaluations(ctx, 10)
	if err != nil {
		log.Fatalf("list evaluations: %v", err)
	}
	fmt.Printf("\nevaluations (%d):\n", len(history))
	printJSON(history)

	// ── Cleanup ───────────────────────────────────────────────────────
	if err := store.DropSchema(ctx); err != nil {
		log.Fatalf("drop: %v", err)
	}
	fmt.Println("\nschema dropped")
}

func evaluate(ctx context.Context, store pipeline.Store, name string, nodes []pipeline.Node, edges []pipeline.Edge) {
	report, err := pipeline.Evaluate(nodes, edges)
	if err != nil {
		log.Fatalf("evaluate %s: %v", name, err)
	}
	if _, err := store.RecordEvaluation(ctx, report); err != nil {
		log.Fatalf("record %s: %v", name, err)
	}
	fmt.Printf("\n%s:\n", name)
	printJSON(report)
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
