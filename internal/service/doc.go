// Package service implements the business logic layer for the MealBridge API.
//
// Services hold all domain rules: status transitions, duplicate detection,
// ownership checks, and orchestration of repository operations. Handlers stay
// thin and translate service errors to HTTP responses.
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with
//     repository dependencies
//   - Services define their own repository interfaces so they can be mocked
//     in unit tests and stay decoupled from the database implementation
//   - Errors are returned as sentinel errors defined in errors.go
//   - Context is passed through for cancellation
package service
