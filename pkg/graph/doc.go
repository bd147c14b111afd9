// Package graph provides the serialization format for inferred hierarchies.
//
// A [Graph] is what `taxotree infer` writes and what the HTTP API returns
// from /api/sources/{name}/hierarchy. It can be read back to build trees
// or diagrams without refetching and reinferring the source.
//
// # Format
//
//	{
//	  "source": "human-mtg",
//	  "nodes": [{"id": "CS:1", "name": "All cells"}, {"id": "CS:2"}],
//	  "edges": [{"child": "CS:2", "parent": "CS:1"}],
//	  "roots": ["CS:1"],
//	  "leaves": ["CS:2"]
//	}
//
// Edges are (child, parent) pairs. multi_inheritance and uncovered are
// omitted when empty.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("mtg.json")    // File -> Graph
//	graph.WriteGraphFile(g, "out.json")        // Graph -> File
//	data, _ := graph.MarshalGraph(g)           // Graph -> []byte
//	nodes, _ := g.NodeTable()                  // Graph -> node table
package graph
