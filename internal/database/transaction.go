package database

import (
	"context"
	"strings"
)

// AtomicBatch accumulates statements that must succeed or fail together.
// At Execute() time the statements are wrapped in
// BEGIN TRANSACTION / COMMIT TRANSACTION and sent as one query.
//
//	batch := database.NewAtomicBatch()
//	batch.Add("CREATE host SET name = $name", map[string]interface{}{"name": name})
//	batch.Add("UPDATE stats SET hosts += 1", nil)
//	err := batch.Execute(ctx, db)
type AtomicBatch struct {
	statements []string
	vars       map[string]interface{}
}

// NewAtomicBatch creates an empty batch
func NewAtomicBatch() *AtomicBatch {
	return &AtomicBatch{vars: make(map[string]interface{})}
}

// Add appends a statement and merges its variables into the batch.
// Callers are responsible for keeping variable names unique across statements.
func (b *AtomicBatch) Add(query string, vars map[string]interface{}) *AtomicBatch {
	b.statements = append(b.statements, query)
	for k, v := range vars {
		b.vars[k] = v
	}
	return b
}

// Len returns the number of statements in the batch
func (b *AtomicBatch) Len() int {
	return len(b.statements)
}

// Build returns the full transaction query and merged variables
func (b *AtomicBatch) Build() (string, map[string]interface{}) {
	if len(b.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range b.statements {
		sb.WriteString(stmt)
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), b.vars
}

// Execute runs the batch atomically. An empty batch is a no-op.
func (b *AtomicBatch) Execute(ctx context.Context, db Database) error {
	if len(b.statements) == 0 {
		return nil
	}
	query, vars := b.Build()
	return db.Execute(ctx, query, vars)
}
