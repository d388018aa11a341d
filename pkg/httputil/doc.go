// Package httputil provides the HTTP client used to fetch remote images.
//
// # Retry
//
// [Retry] runs an operation with exponential backoff. Only errors wrapped
// in [RetryableError] are retried; anything else returns immediately:
//
//   - Network errors: retried
//   - 5xx server errors: retried
//   - 429 Too Many Requests: retried
//   - other 4xx responses: returned as-is
//
// [Client] defaults to 3 attempts starting at a 1 second delay; see
// [Client.WithRetry].
//
// # Client
//
// [Client] performs GET requests with a timeout, a response size limit and
// retry. Every request reports to [observability.HTTP] hooks.
//
//	c := httputil.NewClient(nil)
//	body, contentType, err := c.GetBytes(ctx, "https://example.com/a.png")
package httputil
