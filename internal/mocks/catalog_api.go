package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tripventure/flightdraft/pkg/catalog"
)

type MockCatalogAPI struct {
	mock.Mock
}

func (m *MockCatalogAPI) BaggageOptions(ctx context.Context) ([]catalog.BaggageOption, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.BaggageOption), args.Error(1)
}

func (m *MockCatalogAPI) MealOptions(ctx context.Context) ([]catalog.MealOption, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.MealOption), args.Error(1)
}

func (m *MockCatalogAPI) SeatOptions(ctx context.Context, flightID string) ([]catalog.SeatOption, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.SeatOption), args.Error(1)
}
