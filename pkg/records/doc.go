// Package records normalizes upstream taxonomy rows into the canonical
// input of the hierarchy and tree packages.
//
// Sources produce a [Batch] of [Row] values, either explicit-parent rows
// ([ShapeParent]) or nomenclature rows that declare a "|"-separated set of
// children ([ShapeChildren]). [Normalize] turns a batch into an [Input]
// holding the node table and either (entity, parent) pairs or children-sets.
//
// [ParseDelimited] reads tab- or comma-separated nomenclature tables; the
// header is matched against several well-known column names, so files from
// different taxonomy releases parse without configuration.
package records
