package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockTokenVerifier validates whatever the test tells it to.
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

// StaticVerifier accepts one known token and maps it to a fixed subject.
type StaticVerifier struct {
	Token   string
	Subject string
	Err     error
}

func (v *StaticVerifier) Verify(token string) (string, error) {
	if v.Err != nil {
		return "", v.Err
	}
	if token != v.Token {
		return "", ErrUnknownToken
	}
	return v.Subject, nil
}

type unknownTokenError struct{}

func (unknownTokenError) Error() string { return "unknown token" }

var ErrUnknownToken = unknownTokenError{}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(routingKey string, payload interface{}) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}
