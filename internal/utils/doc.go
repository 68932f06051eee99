// Package utils contains the shared HTTP plumbing used by every provider
// adapter: synchronous JSON POSTs, SSE streaming POSTs, multipart uploads,
// raw-body uploads, and the small parsing helpers layered on top of them.
package utils
