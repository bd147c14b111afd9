// Package pkg provides the core libraries for taxotree cell-type taxonomy
// reconstruction.
//
// # Overview
//
// Taxotree reads cell-type taxonomy records and rebuilds the hierarchy they
// describe. Records either name their parent explicitly or declare the set
// of leaf cells below them; for the latter the hierarchy is inferred from
// set containment, with multi-inheritance repaired where children-sets
// overlap. The pkg directory is organized into these areas:
//
//  1. [taxonomy], [records] - Domain types and raw input rows
//  2. [hierarchy], [tree], [dag] - Inference and display-tree assembly
//  3. [source], [integrations] - Record sources (files, nomenclature URLs, SQLite, MongoDB)
//  4. [pipeline] - Orchestration (fetch → infer → assemble → render)
//  5. [graph], [render] - JSON export and Graphviz diagrams
//  6. [cache], [config], [observability], [server] - Infrastructure
//
// # Architecture
//
// The typical data flow through taxotree:
//
//	Nomenclature file / SQLite table / MongoDB collection
//	         ↓
//	    [source] package (fetch a records.Batch)
//	         ↓
//	    [hierarchy] package (children-sets → (child, parent) edges)
//	         ↓
//	    [tree] package (edges → display forest with expanded hints)
//	         ↓
//	    tree view / browser / JSON / DOT / SVG / PNG
//
// # Quick Start
//
//	src := source.FromPath("nomenclature_table.tsv", records.ShapeChildren)
//	runner := pipeline.NewRunner(cache.NewNullCache(), cache.NewDefaultKeyer(), nil)
//	res, err := runner.Run(ctx, src, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, root := range res.Forest {
//	    fmt.Println(root.Text)
//	}
package pkg
