package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	httpClient HTTPClient
	baseURL    string
}

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

type Option func(*Client)

// PassengerInfo carries the passenger identity fields, upper-cased by the
// caller per carrier convention.
type PassengerInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// BookingLeg is the wire form of one leg of the order.
type BookingLeg struct {
	FlightID      string  `json:"flight_id"`
	FlightNumber  string  `json:"flight_number"`
	CabinClass    string  `json:"cabin_class"`
	FareBundleID  string  `json:"fare_bundle_id"`
	SeatIDs       []int   `json:"seat_ids"`
	BaggageTierID *string `json:"baggage_tier_id,omitempty"`
	MealID        *string `json:"meal_id,omitempty"`
}

type CreateBookingRequest struct {
	TripType     string        `json:"trip_type"`
	Currency     string        `json:"currency"`
	TotalAmount  int64         `json:"total_amount"`
	Passenger    PassengerInfo `json:"passenger"`
	ContactEmail string        `json:"contact_email,omitempty"`
	ContactPhone string        `json:"contact_phone,omitempty"`
	Legs         []BookingLeg  `json:"legs"`
}

type CreateBookingResponse struct {
	Success bool   `json:"success"`
	PNR     string `json:"pnr"`
	Message string `json:"message,omitempty"`
}

var (
	ErrUnauthorized  = errors.New("order api rejected the credential")
	ErrBadStatusCode = errors.New("invalid status code from order api")
)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "http://localhost:8082/api",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// CreateBooking performs the one-shot order creation call. The caller decides
// what a response without a PNR means; the client only reports what came back.
func (c *Client) CreateBooking(ctx context.Context, token string, request CreateBookingRequest) (*CreateBookingResponse, error) {
	jsonBytes, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/%s", c.baseURL, "bookings")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewBuffer(jsonBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if msg := extractMessage(body); msg != "" {
			return nil, fmt.Errorf("%w: %d: %s", ErrBadStatusCode, resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("%w: %d", ErrBadStatusCode, resp.StatusCode)
	}

	var ans CreateBookingResponse
	if err := json.Unmarshal(body, &ans); err != nil {
		return nil, fmt.Errorf("decoding order response: %w", err)
	}
	return &ans, nil
}

func extractMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
