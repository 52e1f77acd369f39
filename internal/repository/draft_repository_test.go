package repository_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "github.com/tripventure/flightdraft/internal"
	"github.com/tripventure/flightdraft/internal/repository"
)

func setupMockDB(t *testing.T) (pgxmock.PgxPoolIface, *repository.DraftRepository) {
	t.Helper()
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return mockDB, repository.NewDraftRepository(mockDB)
}

func storedDraft(t *testing.T) (*models.BookingDraft, []byte) {
	t.Helper()
	draft := models.NewBookingDraft()
	draft.OutboundLeg = &models.Leg{
		Direction:  models.DirectionOutbound,
		FlightID:   "FL-1",
		CabinClass: models.CabinEconomy,
		FareAmount: 3232,
	}
	raw, err := json.Marshal(draft)
	require.NoError(t, err)
	return draft, raw
}

func TestDraftRepositoryGet(t *testing.T) {
	ctx := context.Background()
	selectQuery := regexp.QuoteMeta(`SELECT draft FROM booking_drafts WHERE session_id = $1`)

	t.Run("returns the stored draft", func(t *testing.T) {
		mockDB, repo := setupMockDB(t)
		want, raw := storedDraft(t)

		mockDB.ExpectQuery(selectQuery).
			WithArgs("s1").
			WillReturnRows(pgxmock.NewRows([]string{"draft"}).AddRow(raw))

		draft, err := repo.Get(ctx, "s1")

		require.NoError(t, err)
		assert.Equal(t, want, draft)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("unknown session yields the zero draft", func(t *testing.T) {
		mockDB, repo := setupMockDB(t)

		mockDB.ExpectQuery(selectQuery).
			WithArgs("s2").
			WillReturnRows(pgxmock.NewRows([]string{"draft"}))

		draft, err := repo.Get(ctx, "s2")

		require.NoError(t, err)
		assert.Equal(t, models.NewBookingDraft(), draft)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("query error surfaces", func(t *testing.T) {
		mockDB, repo := setupMockDB(t)

		mockDB.ExpectQuery(selectQuery).
			WithArgs("s1").
			WillReturnError(assert.AnError)

		_, err := repo.Get(ctx, "s1")

		assert.Error(t, err)
	})
}

func TestDraftRepositoryMergePatch(t *testing.T) {
	ctx := context.Background()
	lockQuery := regexp.QuoteMeta(`SELECT draft FROM booking_drafts WHERE session_id = $1 FOR UPDATE`)
	upsertQuery := regexp.QuoteMeta(`INSERT INTO booking_drafts (session_id, draft, updated_at)`)

	t.Run("merges into the locked row", func(t *testing.T) {
		mockDB, repo := setupMockDB(t)
		_, raw := storedDraft(t)
		tier := "bag-20"

		mockDB.ExpectBegin()
		mockDB.ExpectQuery(lockQuery).
			WithArgs("s1").
			WillReturnRows(pgxmock.NewRows([]string{"draft"}).AddRow(raw))
		mockDB.ExpectExec(upsertQuery).
			WithArgs("s1", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectCommit()

		draft, err := repo.MergePatch(ctx, "s1", models.DraftPatch{
			OutboundExtras: &models.ExtraSelection{LegDirection: models.DirectionOutbound, BaggageTierID: &tier},
		})

		require.NoError(t, err)
		assert.Equal(t, "FL-1", draft.OutboundLeg.FlightID)
		assert.Equal(t, "bag-20", *draft.OutboundExtras.BaggageTierID)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("first write starts from the zero draft", func(t *testing.T) {
		mockDB, repo := setupMockDB(t)
		count := 2

		mockDB.ExpectBegin()
		mockDB.ExpectQuery(lockQuery).
			WithArgs("s1").
			WillReturnRows(pgxmock.NewRows([]string{"draft"}))
		mockDB.ExpectExec(upsertQuery).
			WithArgs("s1", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectCommit()

		draft, err := repo.MergePatch(ctx, "s1", models.DraftPatch{PassengerCount: &count})

		require.NoError(t, err)
		assert.Equal(t, 2, draft.PassengerCount)
		assert.Equal(t, models.TripOneWay, draft.TripType)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("upsert failure rolls back", func(t *testing.T) {
		mockDB, repo := setupMockDB(t)
		_, raw := storedDraft(t)
		count := 2

		mockDB.ExpectBegin()
		mockDB.ExpectQuery(lockQuery).
			WithArgs("s1").
			WillReturnRows(pgxmock.NewRows([]string{"draft"}).AddRow(raw))
		mockDB.ExpectExec(upsertQuery).
			WithArgs("s1", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(assert.AnError)
		mockDB.ExpectRollback()

		_, err := repo.MergePatch(ctx, "s1", models.DraftPatch{PassengerCount: &count})

		assert.Error(t, err)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})
}

func TestDraftRepositoryClear(t *testing.T) {
	ctx := context.Background()
	deleteQuery := regexp.QuoteMeta(`DELETE FROM booking_drafts WHERE session_id = $1`)

	t.Run("deletes the session row", func(t *testing.T) {
		mockDB, repo := setupMockDB(t)

		mockDB.ExpectExec(deleteQuery).
			WithArgs("s1").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Clear(ctx, "s1"))
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("clearing a never-written session is fine", func(t *testing.T) {
		mockDB, repo := setupMockDB(t)

		mockDB.ExpectExec(deleteQuery).
			WithArgs("s2").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.NoError(t, repo.Clear(ctx, "s2"))
	})
}
