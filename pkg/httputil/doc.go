// Package httputil provides the HTTP plumbing used by the registry client.
//
// # Overview
//
//   - [Get]: a GET request that classifies failures by status code
//   - [Backoff]: repeats transient failures with a doubling delay
//
// # Retry
//
// Only failures marked [Transient] are repeated: transport errors and
// 5xx responses. A 404 or a malformed body is returned immediately.
//
//	err := httputil.DefaultBackoff.Do(ctx, func() error {
//	    body, _, err = httputil.Get(ctx, client, url)
//	    return err
//	})
//
// [DefaultBackoff] makes 3 attempts starting from a 1 second delay.
// Nothing is cached; every invocation fetches fresh data.
package httputil
