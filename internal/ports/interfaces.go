package ports

import (
	"context"

	models "github.com/tripventure/flightdraft/internal"
	"github.com/tripventure/flightdraft/pkg/catalog"
	"github.com/tripventure/flightdraft/pkg/orderapi"
)

// DraftStore is the session-scoped persistence of the booking draft. Get
// returns a fresh zero draft for a session that was never written. MergePatch
// applies a structural merge, never a full overwrite.
type DraftStore interface {
	Get(ctx context.Context, sessionID string) (*models.BookingDraft, error)
	MergePatch(ctx context.Context, sessionID string, patch models.DraftPatch) (*models.BookingDraft, error)
	Clear(ctx context.Context, sessionID string) error
}

// DraftService covers every step of the assembly flow short of submission.
type DraftService interface {
	Draft(ctx context.Context, sessionID string) (*models.BookingDraft, error)
	Abandon(ctx context.Context, sessionID string) error
	UpdateTrip(ctx context.Context, sessionID string, tripType models.TripType, passengerCount int, currency string) (*models.BookingDraft, error)
	ConfirmFare(ctx context.Context, sessionID string, dir models.Direction, bundle models.FareBundle) (*models.Leg, error)
	SetBaggage(ctx context.Context, sessionID string, dir models.Direction, tierID *string) error
	SetMeal(ctx context.Context, sessionID string, dir models.Direction, mealID *string) error
	ToggleSeat(ctx context.Context, sessionID string, dir models.Direction, seatID int) (*models.SeatAssignment, error)
	ClearSeats(ctx context.Context, sessionID string, dir models.Direction) error
	SetPassenger(ctx context.Context, sessionID string, passenger models.Passenger) error
	SetContact(ctx context.Context, sessionID string, contact models.Contact) error
	Quote(ctx context.Context, sessionID string) (*models.PriceQuote, error)
}

// SubmissionService runs the one-shot submission state machine.
type SubmissionService interface {
	Submit(ctx context.Context, sessionID, token string) (*models.SubmissionResult, error)
}

type CatalogAPI interface {
	BaggageOptions(ctx context.Context) ([]catalog.BaggageOption, error)
	MealOptions(ctx context.Context) ([]catalog.MealOption, error)
	SeatOptions(ctx context.Context, flightID string) ([]catalog.SeatOption, error)
}

type OrderAPI interface {
	CreateBooking(ctx context.Context, token string, request orderapi.CreateBookingRequest) (*orderapi.CreateBookingResponse, error)
}

// TokenVerifier validates a session bearer token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// EventPublisher emits domain events after confirmed submissions, best effort.
type EventPublisher interface {
	Publish(routingKey string, payload interface{}) error
}
