package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	models "github.com/tripventure/flightdraft/internal"
)

type DBConn interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// DraftRepository stores one draft per session as a jsonb document. It is the
// server-session backend of the draft store contract.
type DraftRepository struct {
	db DBConn
}

func NewDraftRepository(db DBConn) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) Get(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	query := `SELECT draft FROM booking_drafts WHERE session_id = $1`
	rows, err := r.db.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return models.NewBookingDraft(), nil
	}

	var raw []byte
	if err := rows.Scan(&raw); err != nil {
		return nil, err
	}
	var draft models.BookingDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("decoding stored draft: %w", err)
	}
	return &draft, nil
}

func (r *DraftRepository) MergePatch(ctx context.Context, sessionID string, patch models.DraftPatch) (*models.BookingDraft, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	draft, err := r.getForUpdateTx(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.Apply(patch)

	raw, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("encoding draft: %w", err)
	}

	query := `
        INSERT INTO booking_drafts (session_id, draft, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (session_id) DO UPDATE SET draft = $2, updated_at = $3
    `
	if _, err := tx.Exec(ctx, query, sessionID, raw, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return draft, nil
}

func (r *DraftRepository) Clear(ctx context.Context, sessionID string) error {
	query := `DELETE FROM booking_drafts WHERE session_id = $1`
	_, err := r.db.Exec(ctx, query, sessionID)
	return err
}

func (r *DraftRepository) getForUpdateTx(ctx context.Context, tx pgx.Tx, sessionID string) (*models.BookingDraft, error) {
	query := `SELECT draft FROM booking_drafts WHERE session_id = $1 FOR UPDATE`
	rows, err := tx.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return models.NewBookingDraft(), nil
	}

	var raw []byte
	if err := rows.Scan(&raw); err != nil {
		return nil, err
	}
	var draft models.BookingDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("decoding stored draft: %w", err)
	}
	return &draft, nil
}
