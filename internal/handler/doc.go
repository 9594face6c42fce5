// Package handler contains the HTTP layer of the MealBridge API.
//
// Handlers are thin: they decode the request, pull the acting user from the
// request context, call a service, and translate the result or error into an
// HTTP response. All business rules live in the service layer; all error
// responses go through MapServiceError so a given failure always produces the
// same Problem Details body.
package handler
