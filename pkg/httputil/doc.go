// Package httputil provides HTTP helpers shared by the marketplace and
// image-host clients.
//
// The package deliberately stays small: a [RetryableError] marker type and a
// [Retry] loop with exponential backoff. Clients wrap transient failures
// (timeouts, connection errors, 5xx responses) in RetryableError; anything
// else fails fast. Rate limiting lives with the client that owns the quota,
// not here.
package httputil
