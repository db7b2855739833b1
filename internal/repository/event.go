package repository

import (
	"context"
	"database/sql"
	"fmt"
	"vlr-scraper/internal/db"
	"vlr-scraper/internal/domain"

	"github.com/rs/zerolog"
)

type EventRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewEventRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *EventRepository {
	return &EventRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *EventRepository) Get(ctx context.Context, vlrURL string) (*domain.Event, error) {
	event, err := r.queries.GetEvent(ctx, vlrURL)
	if err != nil {
		return nil, notFound(err)
	}
	e := toDomainEvent(event)
	return &e, nil
}

func (r *EventRepository) Exists(ctx context.Context, vlrURL string) (bool, error) {
	_, err := r.queries.GetEvent(ctx, vlrURL)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Str("event_url", vlrURL).Msg("failed to look up event")
		return false, err
	}
	return true, nil
}

func (r *EventRepository) ListByName(ctx context.Context, name string) ([]domain.Event, error) {
	events, err := r.queries.ListEventsByName(ctx, name)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Event, len(events))
	for i, e := range events {
		result[i] = toDomainEvent(e)
	}
	return result, nil
}

func (r *EventRepository) UpsertBatch(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	for _, event := range events {
		createdAt, updatedAt := stamps(event.CreatedAt, event.UpdatedAt)
		err := qtx.UpsertEvent(ctx, db.UpsertEventParams{
			VlrUrl:    event.VlrURL,
			Name:      event.Name,
			Series:    event.Series,
			CreatedAt: createdAt,
			UpdatedAt: updatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to upsert event %s: %w", event.VlrURL, err)
		}
	}

	return tx.Commit()
}

func toDomainEvent(e db.Event) domain.Event {
	return domain.Event{
		VlrURL:    e.VlrUrl,
		Name:      e.Name,
		Series:    e.Series,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
