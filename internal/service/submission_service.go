package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	models "github.com/tripventure/flightdraft/internal"
	"github.com/tripventure/flightdraft/internal/ports"
	"github.com/tripventure/flightdraft/pkg/notify"
	"github.com/tripventure/flightdraft/pkg/orderapi"
)

type submissionService struct {
	drafts   ports.DraftService
	store    ports.DraftStore
	orders   ports.OrderAPI
	auth     ports.TokenVerifier
	events   ports.EventPublisher
	mu       sync.Mutex
	inflight map[string]string // session id -> active submission id
}

func NewSubmissionService(drafts ports.DraftService, store ports.DraftStore, orders ports.OrderAPI,
	auth ports.TokenVerifier, events ports.EventPublisher) *submissionService {
	return &submissionService{
		drafts:   drafts,
		store:    store,
		orders:   orders,
		auth:     auth,
		events:   events,
		inflight: make(map[string]string),
	}
}

// Submit runs one pass of the machine:
// DRAFT -> VALIDATING -> SUBMITTING -> CONFIRMED, or VALIDATING -> REJECTED,
// or SUBMITTING -> FAILED. Rejections happen before any network call. A failed
// attempt leaves the draft untouched so the next Submit can retry it.
func (s *submissionService) Submit(ctx context.Context, sessionID, token string) (*models.SubmissionResult, error) {
	draft, err := s.drafts.Draft(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error loading draft: %w", err)
	}

	if result := validateDraft(draft); result != nil {
		return result, nil
	}

	if token == "" {
		return models.Rejected("authorization", "unauthenticated"), nil
	}
	if _, err := s.auth.Verify(token); err != nil {
		return models.Rejected("authorization", "unauthenticated"), nil
	}

	quote, err := s.drafts.Quote(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error pricing draft: %w", err)
	}

	submissionID := uuid.NewString()
	if !s.begin(sessionID, submissionID) {
		return nil, models.ErrSubmissionInFlight
	}
	defer s.finish(sessionID, submissionID)

	request := buildOrderRequest(draft, quote)
	response, err := s.orders.CreateBooking(ctx, token, request)

	// a response that arrives after this submission stopped being the active
	// one (user navigated away and resubmitted) must not touch the draft
	if !s.active(sessionID, submissionID) {
		return models.Failed(models.FailureTransient, "submission superseded"), nil
	}

	if err != nil {
		if errors.Is(err, orderapi.ErrUnauthorized) {
			return models.Failed(models.FailureAuth, "credential invalid or expired"), nil
		}
		return models.Failed(models.FailureTransient, err.Error()), nil
	}
	if !response.Success {
		message := response.Message
		if message == "" {
			message = "booking was not accepted"
		}
		return models.Failed(models.FailureTransient, message), nil
	}
	if response.PNR == "" {
		return models.Failed(models.FailureIntegrity, "booking accepted without a reference, contact support"), nil
	}

	// confirmed: this is the only path that clears the draft
	if err := s.store.Clear(ctx, sessionID); err != nil {
		log.Printf("draft cleanup failed for session %s: %v", sessionID, err)
	}
	s.publishConfirmed(sessionID, response.PNR, quote)

	return models.Confirmed(response.PNR, quote.GrandTotal, quote.Currency), nil
}

func (s *submissionService) begin(sessionID, submissionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[sessionID]; busy {
		return false
	}
	s.inflight[sessionID] = submissionID
	return true
}

func (s *submissionService) active(sessionID, submissionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[sessionID] == submissionID
}

func (s *submissionService) finish(sessionID, submissionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[sessionID] == submissionID {
		delete(s.inflight, sessionID)
	}
}

func (s *submissionService) publishConfirmed(sessionID, pnr string, quote *models.PriceQuote) {
	event := notify.BookingConfirmed{
		SessionID:   sessionID,
		PNR:         pnr,
		TotalAmount: quote.GrandTotal,
		Currency:    quote.Currency,
		ConfirmedAt: time.Now().UTC(),
	}
	if err := s.events.Publish(notify.RoutingKeyBookingConfirmed, event); err != nil {
		log.Printf("booking confirmed event not published for %s: %v", pnr, err)
	}
}

// validateDraft runs the pre-submission invariants. It returns a REJECTED
// result for the first violation found, nil when the draft is submittable.
func validateDraft(draft *models.BookingDraft) *models.SubmissionResult {
	if draft.OutboundLeg == nil {
		return models.Rejected("outbound_leg", "missing outbound leg")
	}
	if draft.TripType == models.TripRoundTrip && draft.InboundLeg == nil {
		return models.Rejected("inbound_leg", "missing inbound leg")
	}

	for _, dir := range draft.RequiredDirections() {
		count := 0
		if seats := draft.Seats(dir); seats != nil {
			count = seats.Count()
		}
		if count != draft.PassengerCount {
			return models.Rejected(string(dir)+"_seats",
				fmt.Sprintf("seat count mismatch: expected %d got %d", draft.PassengerCount, count))
		}
	}

	if draft.Passenger == nil || draft.Passenger.FirstName == "" || draft.Passenger.LastName == "" {
		return models.Rejected("passenger", "missing passenger name")
	}
	return nil
}

// buildOrderRequest shapes the wire payload. Passenger identity is upper-cased
// per carrier convention; only the legs the trip type requires are sent.
func buildOrderRequest(draft *models.BookingDraft, quote *models.PriceQuote) orderapi.CreateBookingRequest {
	request := orderapi.CreateBookingRequest{
		TripType:    string(draft.TripType),
		Currency:    quote.Currency,
		TotalAmount: quote.GrandTotal,
		Passenger: orderapi.PassengerInfo{
			FirstName: strings.ToUpper(draft.Passenger.FirstName),
			LastName:  strings.ToUpper(draft.Passenger.LastName),
		},
	}
	if draft.Contact != nil {
		request.ContactEmail = draft.Contact.Email
		request.ContactPhone = draft.Contact.Phone
	}

	for _, dir := range draft.RequiredDirections() {
		leg := draft.Leg(dir)
		wireLeg := orderapi.BookingLeg{
			FlightID:     leg.FlightID,
			FlightNumber: leg.FlightNumber,
			CabinClass:   string(leg.CabinClass),
			FareBundleID: leg.FareBundleID,
		}
		if seats := draft.Seats(dir); seats != nil {
			wireLeg.SeatIDs = append(wireLeg.SeatIDs, seats.SeatIDs...)
		}
		if extras := draft.Extras(dir); extras != nil {
			wireLeg.BaggageTierID = extras.BaggageTierID
			wireLeg.MealID = extras.MealID
		}
		request.Legs = append(request.Legs, wireLeg)
	}
	return request
}
