package db

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var Schema string

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, dbtx DBTX) error {
	if _, err := dbtx.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("dbtx.Exec: %w", err)
	}

	return nil
}
