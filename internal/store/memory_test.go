package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "github.com/tripventure/flightdraft/internal"
	"github.com/tripventure/flightdraft/internal/store"
)

func TestMemoryStoreGet(t *testing.T) {
	t.Run("unknown session yields zero draft", func(t *testing.T) {
		s := store.NewMemoryStore()

		draft, err := s.Get(context.Background(), "nobody")

		require.NoError(t, err)
		assert.Equal(t, models.TripOneWay, draft.TripType)
		assert.Equal(t, 1, draft.PassengerCount)
		assert.Equal(t, models.DefaultCurrency, draft.Currency)
		assert.Nil(t, draft.OutboundLeg)
		assert.Nil(t, draft.Passenger)
	})

	t.Run("returned draft is a copy", func(t *testing.T) {
		s := store.NewMemoryStore()
		ctx := context.Background()

		_, err := s.MergePatch(ctx, "s1", models.DraftPatch{
			OutboundLeg: &models.Leg{Direction: models.DirectionOutbound, FareAmount: 3232},
		})
		require.NoError(t, err)

		draft, err := s.Get(ctx, "s1")
		require.NoError(t, err)
		draft.OutboundLeg.FareAmount = 9999

		again, err := s.Get(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, int64(3232), again.OutboundLeg.FareAmount)
	})
}

func TestMemoryStoreMergePatch(t *testing.T) {
	t.Run("fragments from different steps accumulate", func(t *testing.T) {
		s := store.NewMemoryStore()
		ctx := context.Background()

		_, err := s.MergePatch(ctx, "s1", models.DraftPatch{
			OutboundLeg: &models.Leg{Direction: models.DirectionOutbound, FlightID: "FL-1", FareAmount: 3232},
		})
		require.NoError(t, err)

		_, err = s.MergePatch(ctx, "s1", models.DraftPatch{
			OutboundSeats: &models.SeatAssignment{LegDirection: models.DirectionOutbound, SeatIDs: []int{7}},
		})
		require.NoError(t, err)

		draft, err := s.MergePatch(ctx, "s1", models.DraftPatch{
			Passenger: &models.Passenger{FirstName: "Mei", LastName: "Lin"},
		})
		require.NoError(t, err)

		assert.Equal(t, "FL-1", draft.OutboundLeg.FlightID)
		assert.Equal(t, []int{7}, draft.OutboundSeats.SeatIDs)
		assert.Equal(t, "Mei", draft.Passenger.FirstName)
	})

	t.Run("extras write does not touch seats or fare", func(t *testing.T) {
		s := store.NewMemoryStore()
		ctx := context.Background()
		tier := "bag-20"

		_, err := s.MergePatch(ctx, "s1", models.DraftPatch{
			InboundLeg:   &models.Leg{Direction: models.DirectionInbound, FareAmount: 4100},
			InboundSeats: &models.SeatAssignment{LegDirection: models.DirectionInbound, SeatIDs: []int{3, 4}},
		})
		require.NoError(t, err)

		draft, err := s.MergePatch(ctx, "s1", models.DraftPatch{
			OutboundExtras: &models.ExtraSelection{LegDirection: models.DirectionOutbound, BaggageTierID: &tier},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(4100), draft.InboundLeg.FareAmount)
		assert.Equal(t, []int{3, 4}, draft.InboundSeats.SeatIDs)
		assert.Equal(t, "bag-20", *draft.OutboundExtras.BaggageTierID)
	})

	t.Run("sessions are independent", func(t *testing.T) {
		s := store.NewMemoryStore()
		ctx := context.Background()

		_, err := s.MergePatch(ctx, "s1", models.DraftPatch{
			OutboundLeg: &models.Leg{Direction: models.DirectionOutbound, FlightID: "FL-1"},
		})
		require.NoError(t, err)

		other, err := s.Get(ctx, "s2")
		require.NoError(t, err)
		assert.Nil(t, other.OutboundLeg)
	})
}

func TestMemoryStoreClear(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	_, err := s.MergePatch(ctx, "s1", models.DraftPatch{
		OutboundLeg: &models.Leg{Direction: models.DirectionOutbound, FlightID: "FL-1"},
	})
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx, "s1"))

	draft, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, draft.OutboundLeg)

	// clearing a never-written session is fine
	assert.NoError(t, s.Clear(ctx, "s2"))
}
