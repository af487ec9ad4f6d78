// Package api adapts HTTP requests to the application services. Handlers
// decode and validate request bodies, read the authenticated user from the
// context, call a service and write a JSON envelope:
//
//	{"success": true, "message": "...", "data": {...}}
//	{"success": false, "message": "...", "errors": [...], "traceId": "..."}
//
// HandleAPIError is the single place where internal errors become status
// codes and client-safe messages.
package api
