package api

import (
	"encoding/json"
	"errors"
	"net/http"

	models "github.com/tripventure/flightdraft/internal"
	"github.com/tripventure/flightdraft/internal/ports"
	"github.com/tripventure/flightdraft/internal/utils"
	"github.com/tripventure/flightdraft/internal/validator"
)

type tripRequest struct {
	TripType       string `json:"trip_type" validate:"required,trip_type"`
	PassengerCount int    `json:"passenger_count" validate:"required,min=1,max=9"`
	Currency       string `json:"currency" validate:"omitempty,len=3,alpha"`
}

type fareRequest struct {
	FareBundleID    string `json:"fare_bundle_id" validate:"required"`
	FlightID        string `json:"flight_id" validate:"required"`
	FlightNumber    string `json:"flight_number" validate:"required"`
	CabinClass      string `json:"cabin_class" validate:"required,cabin_class"`
	Amount          int64  `json:"amount" validate:"min=0"`
	OriginCode      string `json:"origin_code" validate:"required,airport_code"`
	DestinationCode string `json:"destination_code" validate:"required,airport_code"`
}

// extrasRequest distinguishes an absent field (leave untouched) from an
// explicit null (clear the selection) via raw JSON presence.
type extrasRequest struct {
	BaggageTierID json.RawMessage `json:"baggage_tier_id"`
	MealID        json.RawMessage `json:"meal_id"`
}

type seatToggleRequest struct {
	SeatID int `json:"seat_id" validate:"required,min=1"`
}

type passengerRequest struct {
	FirstName      string `json:"first_name" validate:"required,person_name"`
	LastName       string `json:"last_name" validate:"required,person_name"`
	DocumentNumber string `json:"document_number" validate:"omitempty,max=20"`
}

type contactRequest struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,max=20"`
}

// DraftHandler serves the assembled draft and the explicit abandon path.
func DraftHandler(svc ports.DraftService, auth ports.TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, auth)
		if !ok {
			return
		}
		switch r.Method {
		case http.MethodGet:
			draft, err := svc.Draft(r.Context(), sessionID)
			if err != nil {
				renderError(w, err)
				return
			}
			utils.RenderResponse(w, http.StatusOK, draft)
		case http.MethodDelete:
			if err := svc.Abandon(r.Context(), sessionID); err != nil {
				renderError(w, err)
				return
			}
			utils.RenderResponse(w, http.StatusNoContent, nil)
		}
	}
}

func TripHandler(svc ports.DraftService, auth ports.TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, auth)
		if !ok {
			return
		}
		var req tripRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		draft, err := svc.UpdateTrip(r.Context(), sessionID, models.TripType(req.TripType), req.PassengerCount, req.Currency)
		if err != nil {
			renderError(w, err)
			return
		}
		utils.RenderResponse(w, http.StatusOK, draft)
	}
}

func FareHandler(svc ports.DraftService, auth ports.TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, auth)
		if !ok {
			return
		}
		dir := models.Direction(r.PathValue("direction"))
		var req fareRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		bundle := models.FareBundle{
			ID:              req.FareBundleID,
			FlightID:        req.FlightID,
			FlightNumber:    req.FlightNumber,
			CabinClass:      models.CabinClass(req.CabinClass),
			Amount:          req.Amount,
			OriginCode:      req.OriginCode,
			DestinationCode: req.DestinationCode,
		}
		leg, err := svc.ConfirmFare(r.Context(), sessionID, dir, bundle)
		if err != nil {
			renderError(w, err)
			return
		}
		utils.RenderResponse(w, http.StatusCreated, leg)
	}
}

func ExtrasHandler(svc ports.DraftService, auth ports.TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, auth)
		if !ok {
			return
		}
		dir := models.Direction(r.PathValue("direction"))
		var req extrasRequest
		if err := utils.JsonDecodeBody(r, &req); err != nil {
			ae := utils.NewBadRequest("error json decoding body")
			utils.RenderResponse(w, ae.StatusCode, ae)
			return
		}

		if req.BaggageTierID != nil {
			tierID, err := decodeNullableID(req.BaggageTierID)
			if err != nil {
				ae := utils.NewBadRequest("baggage_tier_id must be a string or null")
				utils.RenderResponse(w, ae.StatusCode, ae)
				return
			}
			if err := svc.SetBaggage(r.Context(), sessionID, dir, tierID); err != nil {
				renderError(w, err)
				return
			}
		}
		if req.MealID != nil {
			mealID, err := decodeNullableID(req.MealID)
			if err != nil {
				ae := utils.NewBadRequest("meal_id must be a string or null")
				utils.RenderResponse(w, ae.StatusCode, ae)
				return
			}
			if err := svc.SetMeal(r.Context(), sessionID, dir, mealID); err != nil {
				renderError(w, err)
				return
			}
		}

		draft, err := svc.Draft(r.Context(), sessionID)
		if err != nil {
			renderError(w, err)
			return
		}
		utils.RenderResponse(w, http.StatusOK, draft.Extras(dir))
	}
}

func SeatToggleHandler(svc ports.DraftService, auth ports.TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, auth)
		if !ok {
			return
		}
		dir := models.Direction(r.PathValue("direction"))
		var req seatToggleRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		seats, err := svc.ToggleSeat(r.Context(), sessionID, dir, req.SeatID)
		if err != nil {
			renderError(w, err)
			return
		}
		utils.RenderResponse(w, http.StatusOK, seats)
	}
}

func SeatsClearHandler(svc ports.DraftService, auth ports.TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, auth)
		if !ok {
			return
		}
		dir := models.Direction(r.PathValue("direction"))
		if err := svc.ClearSeats(r.Context(), sessionID, dir); err != nil {
			renderError(w, err)
			return
		}
		utils.RenderResponse(w, http.StatusNoContent, nil)
	}
}

func PassengerHandler(svc ports.DraftService, auth ports.TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, auth)
		if !ok {
			return
		}
		var req passengerRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		passenger := models.Passenger{
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			DocumentNumber: req.DocumentNumber,
		}
		if err := svc.SetPassenger(r.Context(), sessionID, passenger); err != nil {
			renderError(w, err)
			return
		}
		utils.RenderResponse(w, http.StatusOK, passenger)
	}
}

func ContactHandler(svc ports.DraftService, auth ports.TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, auth)
		if !ok {
			return
		}
		var req contactRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		contact := models.Contact{Email: req.Email, Phone: req.Phone}
		if err := svc.SetContact(r.Context(), sessionID, contact); err != nil {
			renderError(w, err)
			return
		}
		utils.RenderResponse(w, http.StatusOK, contact)
	}
}

func QuoteHandler(svc ports.DraftService, auth ports.TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, auth)
		if !ok {
			return
		}
		quote, err := svc.Quote(r.Context(), sessionID)
		if err != nil {
			renderError(w, err)
			return
		}
		utils.RenderResponse(w, http.StatusOK, quote)
	}
}

// SubmitHandler triggers the one-shot submission. The raw bearer is handed to
// the coordinator, which owns the unauthenticated rejection.
func SubmitHandler(svc ports.SubmissionService, auth ports.TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := requireSession(w, r, auth)
		if !ok {
			return
		}
		result, err := svc.Submit(r.Context(), sessionID, utils.BearerToken(r))
		if err != nil {
			renderError(w, err)
			return
		}
		utils.RenderResponse(w, submissionStatus(result), result)
	}
}

func submissionStatus(result *models.SubmissionResult) int {
	switch result.State {
	case models.SubmissionConfirmed:
		return http.StatusOK
	case models.SubmissionRejected:
		if result.Field == "authorization" {
			return http.StatusUnauthorized
		}
		return http.StatusUnprocessableEntity
	default:
		switch result.Kind {
		case models.FailureAuth:
			return http.StatusUnauthorized
		case models.FailureIntegrity:
			return http.StatusInternalServerError
		default:
			return http.StatusBadGateway
		}
	}
}

// requireSession resolves the draft session: the verified bearer subject when
// present, else the explicit X-Session-Id header.
func requireSession(w http.ResponseWriter, r *http.Request, auth ports.TokenVerifier) (string, bool) {
	if token := utils.BearerToken(r); token != "" {
		if subject, err := auth.Verify(token); err == nil {
			return subject, true
		}
	}
	if sessionID := r.Header.Get("X-Session-Id"); sessionID != "" {
		return sessionID, true
	}
	ae := utils.NewBadRequest("missing session: provide a bearer token or X-Session-Id")
	utils.RenderResponse(w, ae.StatusCode, ae)
	return "", false
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := utils.JsonDecodeBody(r, dst); err != nil {
		ae := utils.NewBadRequest("error json decoding body")
		utils.RenderResponse(w, ae.StatusCode, ae)
		return false
	}
	v := validator.NewCustomValidator()
	if err := v.Validate(dst); err != nil {
		ae := utils.NewBadRequest(err.Error())
		utils.RenderResponse(w, ae.StatusCode, ae)
		return false
	}
	return true
}

func decodeNullableID(raw json.RawMessage) (*string, error) {
	var id *string
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, err
	}
	return id, nil
}

func renderError(w http.ResponseWriter, err error) {
	ae := getApiError(err)
	utils.RenderResponse(w, ae.StatusCode, ae)
}

func getApiError(err error) utils.ApiError {
	ae := utils.ApiError{Msg: err.Error()}
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, models.ErrUnknownDirection),
		errors.Is(err, models.ErrNegativeFare):
		ae.StatusCode = http.StatusBadRequest
	case errors.Is(err, models.ErrLegNotConfirmed),
		errors.Is(err, models.ErrSubmissionInFlight):
		ae.StatusCode = http.StatusConflict
	default:
		ae.StatusCode = http.StatusInternalServerError
	}
	return ae
}
