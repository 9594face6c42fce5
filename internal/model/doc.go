// Package model defines the domain types for the MealBridge API.
//
// Types fall into three groups:
//   - Domain entities (EventRequest, SandwichCollection, Host, ...) that map
//     to database records
//   - Request/response DTOs used by handlers (Create*/Update* structs)
//   - The ProblemDetails error model (RFC 9457) shared by every endpoint
//
// Optional fields use pointer types so PATCH handlers can distinguish
// "not provided" from zero values.
package model
