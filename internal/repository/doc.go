// Package repository implements data access for the MealBridge API.
//
// Each entity gets its own repository type wrapping the database.Database
// interface. Queries are SurrealQL with $-prefixed variables; results come
// back as generic maps and are converted to model types by per-entity parse
// functions built on the shared accessors in helpers.go.
//
// Repositories return (nil, nil) for lookups that find nothing; services
// translate that into their own not-found errors.
package repository
