// Package dag provides the directed graph used for reachability queries
// during hierarchy inference and for cycle checks during tree assembly.
//
// # Overview
//
// Nodes and edges are kept in insertion order, so every traversal
// ([DAG.Children], [DAG.Sources], [DAG.Descendants], [DAG.FindCycle]) is
// deterministic for a given input. Duplicate edges are ignored.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode] (or
// [DAG.EnsureNode]), and edges with [DAG.AddEdge]:
//
//	g := dag.New()
//	g.AddNode("C")
//	g.AddNode("B")
//	g.AddEdge(dag.Edge{From: "C", To: "B"})
//
// The hierarchy package stores edges parent→child so that
// [DAG.Descendants] answers "which entities lie below this one".
//
// # Cycles
//
// AddEdge accepts edges that close a cycle, because explicit-parent input
// is not trusted. [DAG.FindCycle] reports one cycle as a path, using
// depth-first search with white/gray/black coloring in O(N+E).
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Each inference or
// assembly run builds its own graph.
package dag
