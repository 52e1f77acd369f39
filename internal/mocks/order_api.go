package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tripventure/flightdraft/pkg/orderapi"
)

type MockOrderAPI struct {
	mock.Mock
}

func (m *MockOrderAPI) CreateBooking(ctx context.Context, token string, request orderapi.CreateBookingRequest) (*orderapi.CreateBookingResponse, error) {
	args := m.Called(ctx, token, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderapi.CreateBookingResponse), args.Error(1)
}
