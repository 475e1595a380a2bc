// Package httpx provides the HTTP client used to talk to the result-tracking backend:
// - an ordered list of candidate origins, tried one after another
// - fallback to the next origin only when no HTTP response was obtained
// - bearer token taken from the current session at the start of every call
// - error type carrying kind, status, request id and a readable message
// - hook points for logging/tracing without hard dependencies
package httpx
