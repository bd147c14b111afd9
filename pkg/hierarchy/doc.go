// Package hierarchy reconstructs parent/child edges of a taxonomy from the
// children-sets each entity declares.
//
// # Overview
//
// Nomenclature tables often describe a hierarchy only indirectly: every
// cell set lists the leaf sets it contains, and a leaf lists itself. The
// containment order of those sets encodes the tree. [Infer] recovers it in
// two passes:
//
//  1. Single inheritance: each record is attached to the smallest later
//     record whose children-set contains its own.
//  2. Repair: records whose declared children are not all reachable below
//     them after pass 1 are given extra parents-of-children edges, built
//     greedily from smaller records.
//
// Edges always point from a record earlier in size order to a later one,
// so the inferred graph is acyclic.
//
// When the input already carries explicit parents, [FromParents] turns
// those pairs into a [Result] without any inference.
//
// # Determinism
//
// Ties between equally sized children-sets are broken by input order.
// Permuting the input can therefore change the result; running Infer twice
// on the same input cannot.
package hierarchy
