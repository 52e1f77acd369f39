package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripventure/flightdraft/internal/validator"
)

type sample struct {
	Direction  string `validate:"omitempty,direction"`
	TripType   string `validate:"omitempty,trip_type"`
	CabinClass string `validate:"omitempty,cabin_class"`
	Name       string `validate:"omitempty,person_name"`
	Airport    string `validate:"omitempty,airport_code"`
}

func TestCustomRules(t *testing.T) {
	v := validator.NewCustomValidator()

	valid := []sample{
		{Direction: "outbound"},
		{Direction: "inbound"},
		{TripType: "one_way"},
		{TripType: "round_trip"},
		{CabinClass: "economy"},
		{CabinClass: "premium"},
		{CabinClass: "business"},
		{Name: "Mei"},
		{Name: "O'Brien"},
		{Name: "Anna-Lena Smith"},
		{Airport: "TPE"},
	}
	for _, s := range valid {
		assert.NoError(t, v.Validate(s), "%+v", s)
	}

	invalid := []sample{
		{Direction: "sideways"},
		{TripType: "circular"},
		{CabinClass: "first"},
		{Name: "  "},
		{Name: "-Dash"},
		{Name: "Mei3"},
		{Name: strings.Repeat("a", 51)},
		{Airport: "tpe"},
		{Airport: "TPEI"},
	}
	for _, s := range invalid {
		assert.Error(t, v.Validate(s), "%+v", s)
	}
}
