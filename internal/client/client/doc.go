// Package client contains the backend API collaborator of the jobhub client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) to talk
//     to the jobhub backend: Register, Login, SendOTP, VerifyOTP, Logout
//     and Ping.
//  2. A concrete REST/JSON implementation (see HTTPClient) that tags every
//     request with an X-Request-ID, injects the bearer token of the current
//     session, applies a per-request timeout and maps transport failures and
//     non-2xx answers to the common error taxonomy.
//
// # Error Handling
//
// Failures are reported with the sentinels of package common and matched
// with errors.Is: common.ErrUnavailable for requests that did not complete,
// common.ErrBackendRejected (a *common.BackendError carrying the server
// message verbatim) for non-2xx answers.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation. No call is retried internally.
package client
