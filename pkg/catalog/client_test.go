package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripventure/flightdraft/pkg/catalog"
)

func TestBaggageOptions(t *testing.T) {
	t.Run("decodes the tier list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/baggage-options", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			json.NewEncoder(w).Encode([]catalog.BaggageOption{
				{ID: "bag-20", Name: "20kg", WeightKG: 20, Price: 900},
				{ID: "bag-30", Name: "30kg", WeightKG: 30, Price: 1400},
			})
		}))
		defer server.Close()

		client := catalog.NewClient(catalog.WithBaseURL(server.URL + "/api"))
		options, err := client.BaggageOptions(context.Background())

		require.NoError(t, err)
		require.Len(t, options, 2)
		assert.Equal(t, "bag-20", options[0].ID)
		assert.Equal(t, int64(900), options[0].Price)
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := catalog.NewClient(catalog.WithBaseURL(server.URL + "/api"))
		_, err := client.BaggageOptions(context.Background())

		assert.ErrorIs(t, err, catalog.ErrBadStatusCode)
	})
}

func TestMealOptions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/meal-options", r.URL.Path)
		json.NewEncoder(w).Encode([]catalog.MealOption{
			{ID: "meal-veg", Name: "Vegetarian", Price: 250},
		})
	}))
	defer server.Close()

	client := catalog.NewClient(catalog.WithBaseURL(server.URL + "/api"))
	options, err := client.MealOptions(context.Background())

	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "meal-veg", options[0].ID)
}

func TestSeatOptions(t *testing.T) {
	t.Run("passes the flight id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/seat-options", r.URL.Path)
			assert.Equal(t, "FL-1", r.URL.Query().Get("flightId"))
			json.NewEncoder(w).Encode([]catalog.SeatOption{
				{ID: 7, Row: 2, Column: "A", Cabin: "economy"},
				{ID: 9, Row: 2, Column: "C", Cabin: "economy", Occupied: true},
			})
		}))
		defer server.Close()

		client := catalog.NewClient(catalog.WithBaseURL(server.URL + "/api"))
		options, err := client.SeatOptions(context.Background(), "FL-1")

		require.NoError(t, err)
		require.Len(t, options, 2)
		assert.True(t, options[1].Occupied)
	})

	t.Run("empty flight id", func(t *testing.T) {
		client := catalog.NewClient()

		_, err := client.SeatOptions(context.Background(), "")

		assert.Error(t, err)
	})
}
