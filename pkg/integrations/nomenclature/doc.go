// Package nomenclature downloads cell-type nomenclature tables: delimited
// files listing each cell set with its accession, preferred alias, aligned
// aliases and the accessions of the cell sets it contains.
package nomenclature
