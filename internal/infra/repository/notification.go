package repository

import (
	"context"
	"log/slog"
	"time"

	"studio-booking/internal/infra/db"
	"studio-booking/internal/usecase/shared"
)

// NotificationRepository writes outbox rows; an external dispatcher drains
// them, so a booking change and its notification commit or roll back together.
type NotificationRepository struct {
	dbtx   db.DBTX
	logger *slog.Logger
}

func NewNotificationRepository(dbtx db.DBTX) shared.NotificationRepository {
	return &NotificationRepository{dbtx: dbtx, logger: slog.Default()}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	const insert = `
		INSERT INTO notification_jobs (kind, topic, payload, run_at)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.dbtx.Exec(ctx, insert, kind, topic, payload, runAt); err != nil {
		return wrapWriteErr(r.logger, "insert notification job", err)
	}
	return nil
}
