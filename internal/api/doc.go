// Package api exposes the task service over HTTP. Handlers decode and
// validate JSON requests, call the services and map their errors to status
// codes and safe messages. Routing lives in cmd/server; authentication,
// tracing, metrics and rate limiting live in the middleware subpackage.
package api
