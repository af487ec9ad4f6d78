// Package service contains the application use cases. It orchestrates domain
// objects and the persistence interfaces defined in internal/store; it never
// depends on a concrete database.
//
// Services receive their dependencies through constructors, apply business
// rules that span the domain and the store, and return sentinel errors that
// the API layer maps to HTTP responses:
//
//   - TaskService owns the Task Query Engine (filtered, sorted, paginated
//     listing and per-status statistics) and the task mutations.
//   - UserService registers users and verifies credentials.
//
// Authentication tokens live in the auth subpackage.
package service
