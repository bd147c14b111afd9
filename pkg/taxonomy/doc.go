// Package taxonomy defines the data model shared by the hierarchy inference
// engine and the tree assembler.
//
// # Overview
//
// A taxonomy is a collection of entities ("cell sets") identified by
// opaque accession ids. Upstream sources describe each entity either with
// an explicit parent id or with the set of ids it declares as children.
// The types in this package carry those descriptions through one run:
//
//   - [NodeRecord]: id, display name and synonyms of one entity
//   - [NodeTable]: insertion-ordered, read-only lookup of node records
//   - [ChildSetRecord]: an entity and its declared children-set
//   - [Edge] and [EdgeSet]: (child, parent) pairs, deduplicated, ordered
//   - [TreeNode]: one node of the nested display tree
//
// # Leaf Sentinel
//
// A record with no declared children is given the self-singleton set
// {id}. The sentinel sorts into the smallest size class, which lets the
// inference engine treat leaves like any other record.
//
// # Ordering
//
// Every collection that is iterated downstream keeps insertion order.
// Trees assembled twice from the same input are therefore identical.
package taxonomy
