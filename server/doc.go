// Package server hosts speechkit tasks over HTTP using Gin behind an h2c
// handler, so HTTP/1.1 and cleartext HTTP/2 clients share one port.
//
// # Routes
//
//   - POST /v1/tasks/:name: run a task; the JSON body is its parameter map
//   - GET  /v1/tasks: list registered task names
//   - GET  /health: aggregated component health
//   - GET  /version: build information
//
// Successful task runs answer {"data":{"result":...,"previews":[...]}}.
// Failures answer {"error":{"code","message","retryable","details"}} with the
// status carried by the AppError.
//
// # Middleware
//
// server/middleware provides Recovery, RequestID, BodySizeLimit and
// RequestLogger for the Gin engine.
package server
