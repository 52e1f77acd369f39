package service

import (
	"context"
	"fmt"
	"log"

	models "github.com/tripventure/flightdraft/internal"
	"github.com/tripventure/flightdraft/internal/ports"
	"github.com/tripventure/flightdraft/pkg/catalog"
)

type draftService struct {
	store   ports.DraftStore
	catalog ports.CatalogAPI
}

func NewDraftService(store ports.DraftStore, catalogAPI ports.CatalogAPI) *draftService {
	return &draftService{
		store:   store,
		catalog: catalogAPI,
	}
}

func (s *draftService) Draft(ctx context.Context, sessionID string) (*models.BookingDraft, error) {
	draft, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error reading draft: %w", err)
	}
	return draft, nil
}

func (s *draftService) Abandon(ctx context.Context, sessionID string) error {
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("error clearing draft: %w", err)
	}
	return nil
}

func (s *draftService) UpdateTrip(ctx context.Context, sessionID string, tripType models.TripType, passengerCount int, currency string) (*models.BookingDraft, error) {
	if !tripType.Valid() {
		return nil, &models.ValidationError{Field: "trip_type", Reason: "unknown trip type"}
	}
	if passengerCount < 1 {
		return nil, &models.ValidationError{Field: "passenger_count", Reason: "must be at least 1"}
	}
	if currency == "" {
		currency = models.DefaultCurrency
	}

	patch := models.DraftPatch{
		TripType:       &tripType,
		PassengerCount: &passengerCount,
		Currency:       &currency,
	}
	draft, err := s.store.MergePatch(ctx, sessionID, patch)
	if err != nil {
		return nil, fmt.Errorf("error updating trip: %w", err)
	}
	return draft, nil
}

// ConfirmFare records the chosen fare bundle as the leg for that direction.
// Re-selecting always wins over the prior choice. A cabin change invalidates
// the seats already picked for that leg, so they are cleared along with it.
func (s *draftService) ConfirmFare(ctx context.Context, sessionID string, dir models.Direction, bundle models.FareBundle) (*models.Leg, error) {
	if !dir.Valid() {
		return nil, models.ErrUnknownDirection
	}
	if bundle.Amount < 0 {
		return nil, models.ErrNegativeFare
	}

	draft, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error reading draft: %w", err)
	}

	leg := &models.Leg{
		Direction:       dir,
		FlightID:        bundle.FlightID,
		FlightNumber:    bundle.FlightNumber,
		CabinClass:      bundle.CabinClass,
		FareBundleID:    bundle.ID,
		FareAmount:      bundle.Amount,
		OriginCode:      bundle.OriginCode,
		DestinationCode: bundle.DestinationCode,
	}

	patch := models.LegPatch(dir, leg)
	if prior := draft.Leg(dir); prior != nil && prior.CabinClass != bundle.CabinClass {
		empty := models.SeatsPatch(dir, &models.SeatAssignment{LegDirection: dir, SeatIDs: []int{}})
		if dir == models.DirectionInbound {
			patch.InboundSeats = empty.InboundSeats
		} else {
			patch.OutboundSeats = empty.OutboundSeats
		}
	}

	if _, err := s.store.MergePatch(ctx, sessionID, patch); err != nil {
		return nil, fmt.Errorf("error confirming fare: %w", err)
	}
	return leg, nil
}

func (s *draftService) SetBaggage(ctx context.Context, sessionID string, dir models.Direction, tierID *string) error {
	return s.setExtra(ctx, sessionID, dir, func(extras *models.ExtraSelection) {
		extras.BaggageTierID = tierID
	})
}

func (s *draftService) SetMeal(ctx context.Context, sessionID string, dir models.Direction, mealID *string) error {
	return s.setExtra(ctx, sessionID, dir, func(extras *models.ExtraSelection) {
		extras.MealID = mealID
	})
}

func (s *draftService) setExtra(ctx context.Context, sessionID string, dir models.Direction, mutate func(*models.ExtraSelection)) error {
	if !dir.Valid() {
		return models.ErrUnknownDirection
	}

	draft, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("error reading draft: %w", err)
	}

	extras := draft.Extras(dir)
	if extras == nil {
		extras = &models.ExtraSelection{LegDirection: dir}
	}
	mutate(extras)

	if _, err := s.store.MergePatch(ctx, sessionID, models.ExtrasPatch(dir, extras)); err != nil {
		return fmt.Errorf("error updating extras: %w", err)
	}
	return nil
}

// ToggleSeat flips the selection of one seat. Blocked seats (occupied, other
// cabin, business) are a no-op, as is adding past the passenger count: the
// UI signals "seat limit reached" instead of evicting an older pick.
func (s *draftService) ToggleSeat(ctx context.Context, sessionID string, dir models.Direction, seatID int) (*models.SeatAssignment, error) {
	if !dir.Valid() {
		return nil, models.ErrUnknownDirection
	}

	draft, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error reading draft: %w", err)
	}

	leg := draft.Leg(dir)
	if leg == nil {
		return nil, models.ErrLegNotConfirmed
	}

	seats := draft.Seats(dir)
	if seats == nil {
		seats = &models.SeatAssignment{LegDirection: dir}
	}

	if seats.Has(seatID) {
		seats.Remove(seatID)
	} else {
		if seats.Count() >= draft.PassengerCount {
			return seats, nil
		}
		if !s.seatSelectable(ctx, leg, seatID) {
			return seats, nil
		}
		seats.Add(seatID)
	}

	if _, err := s.store.MergePatch(ctx, sessionID, models.SeatsPatch(dir, seats)); err != nil {
		return nil, fmt.Errorf("error updating seats: %w", err)
	}
	return seats, nil
}

func (s *draftService) ClearSeats(ctx context.Context, sessionID string, dir models.Direction) error {
	if !dir.Valid() {
		return models.ErrUnknownDirection
	}
	empty := &models.SeatAssignment{LegDirection: dir, SeatIDs: []int{}}
	if _, err := s.store.MergePatch(ctx, sessionID, models.SeatsPatch(dir, empty)); err != nil {
		return fmt.Errorf("error clearing seats: %w", err)
	}
	return nil
}

func (s *draftService) SetPassenger(ctx context.Context, sessionID string, passenger models.Passenger) error {
	if _, err := s.store.MergePatch(ctx, sessionID, models.DraftPatch{Passenger: &passenger}); err != nil {
		return fmt.Errorf("error updating passenger: %w", err)
	}
	return nil
}

func (s *draftService) SetContact(ctx context.Context, sessionID string, contact models.Contact) error {
	if _, err := s.store.MergePatch(ctx, sessionID, models.DraftPatch{Contact: &contact}); err != nil {
		return fmt.Errorf("error updating contact: %w", err)
	}
	return nil
}

// Quote derives the draft's pricing. It is pure over the draft and the
// catalogs: absent legs contribute 0, and a selection whose id vanished from
// the catalog prices at 0 rather than erroring out.
func (s *draftService) Quote(ctx context.Context, sessionID string) (*models.PriceQuote, error) {
	draft, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error reading draft: %w", err)
	}

	baggagePrices, mealPrices := s.extrasPrices(ctx)

	quote := &models.PriceQuote{Currency: draft.Currency}
	for _, dir := range []models.Direction{models.DirectionOutbound, models.DirectionInbound} {
		if leg := draft.Leg(dir); leg != nil {
			quote.BaseFare += leg.FareAmount
		}
		if extras := draft.Extras(dir); extras != nil {
			if extras.BaggageTierID != nil {
				quote.ExtrasTotal += baggagePrices[*extras.BaggageTierID]
			}
			if extras.MealID != nil {
				quote.ExtrasTotal += mealPrices[*extras.MealID]
			}
		}
	}
	quote.GrandTotal = quote.BaseFare + quote.ExtrasTotal
	return quote, nil
}

// extrasPrices builds id-to-price lookups. A failed catalog fetch degrades to
// an empty lookup so stale selections price at 0 instead of blocking the flow.
func (s *draftService) extrasPrices(ctx context.Context) (map[string]int64, map[string]int64) {
	baggagePrices := make(map[string]int64)
	mealPrices := make(map[string]int64)

	baggage, err := s.catalog.BaggageOptions(ctx)
	if err != nil {
		log.Printf("baggage catalog unavailable, pricing extras at 0: %v", err)
	}
	for _, option := range baggage {
		baggagePrices[option.ID] = option.Price
	}

	meals, err := s.catalog.MealOptions(ctx)
	if err != nil {
		log.Printf("meal catalog unavailable, pricing extras at 0: %v", err)
	}
	for _, option := range meals {
		mealPrices[option.ID] = option.Price
	}

	return baggagePrices, mealPrices
}

func (s *draftService) seatSelectable(ctx context.Context, leg *models.Leg, seatID int) bool {
	seatMap, err := s.catalog.SeatOptions(ctx, leg.FlightID)
	if err != nil {
		// without a seat map the seat's state is unknown, so the add is a no-op
		log.Printf("seat map unavailable for flight %s: %v", leg.FlightID, err)
		return false
	}

	var seat *catalog.SeatOption
	for i := range seatMap {
		if seatMap[i].ID == seatID {
			seat = &seatMap[i]
			break
		}
	}
	if seat == nil || seat.Occupied {
		return false
	}
	if seat.Cabin == string(models.CabinBusiness) {
		return false
	}
	return seat.Cabin == string(leg.CabinClass)
}
