package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
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

// BaggageOption is a priced checked-baggage tier.
type BaggageOption struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	WeightKG int    `json:"weight_kg"`
	Price    int64  `json:"price"`
}

// MealOption is a priced in-flight meal.
type MealOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// SeatOption is one seat of a flight's seat map.
type SeatOption struct {
	ID       int    `json:"id"`
	Row      int    `json:"row"`
	Column   string `json:"column"`
	Cabin    string `json:"cabin"`
	Occupied bool   `json:"occupied"`
}

var ErrBadStatusCode = errors.New("invalid status code from catalog api")

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
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "http://localhost:8081/api",
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

func (c *Client) BaggageOptions(ctx context.Context) ([]BaggageOption, error) {
	var options []BaggageOption
	if err := c.getJSON(ctx, "baggage-options", nil, &options); err != nil {
		return nil, fmt.Errorf("fetching baggage options: %w", err)
	}
	return options, nil
}

func (c *Client) MealOptions(ctx context.Context) ([]MealOption, error) {
	var options []MealOption
	if err := c.getJSON(ctx, "meal-options", nil, &options); err != nil {
		return nil, fmt.Errorf("fetching meal options: %w", err)
	}
	return options, nil
}

func (c *Client) SeatOptions(ctx context.Context, flightID string) ([]SeatOption, error) {
	if flightID == "" {
		return nil, fmt.Errorf("flight id cannot be empty")
	}
	query := url.Values{"flightId": []string{flightID}}
	var options []SeatOption
	if err := c.getJSON(ctx, "seat-options", query, &options); err != nil {
		return nil, fmt.Errorf("fetching seat options: %w", err)
	}
	return options, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dst interface{}) error {
	u := fmt.Sprintf("%s/%s", c.baseURL, path)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrBadStatusCode, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}
