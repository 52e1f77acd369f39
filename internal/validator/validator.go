package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	models "github.com/tripventure/flightdraft/internal"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("direction", validateDirection)
	v.RegisterValidation("trip_type", validateTripType)
	v.RegisterValidation("cabin_class", validateCabinClass)
	v.RegisterValidation("person_name", validatePersonName)
	v.RegisterValidation("airport_code", validateAirportCode)

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func validateDirection(fl validator.FieldLevel) bool {
	return models.Direction(fl.Field().String()).Valid()
}

func validateTripType(fl validator.FieldLevel) bool {
	return models.TripType(fl.Field().String()).Valid()
}

func validateCabinClass(fl validator.FieldLevel) bool {
	return models.CabinClass(fl.Field().String()).Valid()
}

var personNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z '-]*$`)

func validatePersonName(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return len(name) > 0 && len(name) <= 50 && personNamePattern.MatchString(name)
}

var airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

func validateAirportCode(fl validator.FieldLevel) bool {
	return airportCodePattern.MatchString(fl.Field().String())
}
