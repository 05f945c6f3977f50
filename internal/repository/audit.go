package repository

import (
	"context"
	"fmt"

	"nannybook-service/internal/models"
)

// InsertAuditLog appends one admin-mutation record.
func InsertAuditLog(ctx context.Context, db DBTX, entry models.AuditLog) error {
	q := `INSERT INTO audit_logs (actor_user_id, action, entity_type, entity_id, details)
	      VALUES ($1,$2,$3,$4,$5)`
	if _, err := db.Exec(ctx, q,
		entry.ActorUserID, entry.Action, entry.EntityType, entry.EntityID, entry.Details); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
