// Package integrations provides the HTTP client shared by remote record
// sources.
//
// # Client
//
// [Client] wraps net/http with three concerns every remote source needs:
//
//   - response caching through a [cache.Cache], keyed by namespace and URL
//   - retry with exponential backoff for transient failures
//   - status mapping: 404 becomes [ErrNotFound], 429 and 5xx become
//     retryable [ErrNetwork] errors, other codes a permanent [ErrNetwork]
//
// Requests report to the registered observability HTTP hooks.
//
// # Remote Sources
//
// Each remote format gets its own subpackage embedding [Client]; see
// [nomenclature] for the cell-type nomenclature tables.
//
// [cache.Cache]: github.com/matzehuels/taxotree/pkg/cache.Cache
// [nomenclature]: github.com/matzehuels/taxotree/pkg/integrations/nomenclature
package integrations
