// Package jobs contains the background processors that run alongside the
// HTTP server: event reminders and the weekly digest. Each job follows the
// same lifecycle: Start launches a ticker goroutine, Stop blocks until it
// exits, and RunOnce executes a single pass for tests and manual triggers.
package jobs
