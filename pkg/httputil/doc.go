// Package httputil provides retry helpers for the HTTP record sources.
//
// [Retry] re-runs an operation with exponential backoff, but only for
// errors marked transient with [Retryable]:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// Permanent failures (404, malformed payloads) are returned immediately.
// Cancelling ctx aborts the wait between attempts.
package httputil
