package models

// Direction identifies one leg of a trip.
type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

func (d Direction) Valid() bool {
	return d == DirectionOutbound || d == DirectionInbound
}

type TripType string

const (
	TripOneWay    TripType = "one_way"
	TripRoundTrip TripType = "round_trip"
)

func (t TripType) Valid() bool {
	return t == TripOneWay || t == TripRoundTrip
}

type CabinClass string

const (
	CabinEconomy  CabinClass = "economy"
	CabinPremium  CabinClass = "premium"
	CabinBusiness CabinClass = "business"
)

func (c CabinClass) Valid() bool {
	return c == CabinEconomy || c == CabinPremium || c == CabinBusiness
}

const DefaultCurrency = "TWD"

// FareBundle is the priced fare option chosen on the fare-selection step.
type FareBundle struct {
	ID              string     `json:"id"`
	FlightID        string     `json:"flight_id"`
	FlightNumber    string     `json:"flight_number"`
	CabinClass      CabinClass `json:"cabin_class"`
	Amount          int64      `json:"amount"`
	OriginCode      string     `json:"origin_code"`
	DestinationCode string     `json:"destination_code"`
}

// Leg is one direction of travel with its confirmed fare.
type Leg struct {
	Direction       Direction  `json:"direction"`
	FlightID        string     `json:"flight_id"`
	FlightNumber    string     `json:"flight_number"`
	CabinClass      CabinClass `json:"cabin_class"`
	FareBundleID    string     `json:"fare_bundle_id"`
	FareAmount      int64      `json:"fare_amount"`
	OriginCode      string     `json:"origin_code"`
	DestinationCode string     `json:"destination_code"`
}

// ExtraSelection holds the optional per-leg add-ons. Nil means not chosen.
type ExtraSelection struct {
	LegDirection  Direction `json:"leg_direction"`
	BaggageTierID *string   `json:"baggage_tier_id"`
	MealID        *string   `json:"meal_id"`
}

// SeatAssignment is the per-leg set of selected seat ids. The ids are kept
// sorted for stable serialization; the order carries no meaning.
type SeatAssignment struct {
	LegDirection Direction `json:"leg_direction"`
	SeatIDs      []int     `json:"seat_ids"`
}

func (s *SeatAssignment) Has(seatID int) bool {
	for _, id := range s.SeatIDs {
		if id == seatID {
			return true
		}
	}
	return false
}

func (s *SeatAssignment) Add(seatID int) {
	if s.Has(seatID) {
		return
	}
	i := 0
	for i < len(s.SeatIDs) && s.SeatIDs[i] < seatID {
		i++
	}
	s.SeatIDs = append(s.SeatIDs, 0)
	copy(s.SeatIDs[i+1:], s.SeatIDs[i:])
	s.SeatIDs[i] = seatID
}

func (s *SeatAssignment) Remove(seatID int) {
	for i, id := range s.SeatIDs {
		if id == seatID {
			s.SeatIDs = append(s.SeatIDs[:i], s.SeatIDs[i+1:]...)
			return
		}
	}
}

func (s *SeatAssignment) Count() int {
	return len(s.SeatIDs)
}

type Passenger struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DocumentNumber string `json:"document_number,omitempty"`
}

type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BookingDraft is the aggregate booking state assembled across steps. One
// draft exists per session; it lives from the first fare confirmation until
// submission succeeds or the user abandons the flow.
type BookingDraft struct {
	TripType       TripType        `json:"trip_type"`
	PassengerCount int             `json:"passenger_count"`
	Currency       string          `json:"currency"`
	OutboundLeg    *Leg            `json:"outbound_leg,omitempty"`
	InboundLeg     *Leg            `json:"inbound_leg,omitempty"`
	OutboundExtras *ExtraSelection `json:"outbound_extras,omitempty"`
	InboundExtras  *ExtraSelection `json:"inbound_extras,omitempty"`
	OutboundSeats  *SeatAssignment `json:"outbound_seats,omitempty"`
	InboundSeats   *SeatAssignment `json:"inbound_seats,omitempty"`
	Passenger      *Passenger      `json:"passenger,omitempty"`
	Contact        *Contact        `json:"contact,omitempty"`
}

// NewBookingDraft returns the zero draft a session starts from.
func NewBookingDraft() *BookingDraft {
	return &BookingDraft{
		TripType:       TripOneWay,
		PassengerCount: 1,
		Currency:       DefaultCurrency,
	}
}

func (d *BookingDraft) Leg(dir Direction) *Leg {
	if dir == DirectionInbound {
		return d.InboundLeg
	}
	return d.OutboundLeg
}

func (d *BookingDraft) Extras(dir Direction) *ExtraSelection {
	if dir == DirectionInbound {
		return d.InboundExtras
	}
	return d.OutboundExtras
}

func (d *BookingDraft) Seats(dir Direction) *SeatAssignment {
	if dir == DirectionInbound {
		return d.InboundSeats
	}
	return d.OutboundSeats
}

// RequiredDirections lists the legs that must be present at submission time.
func (d *BookingDraft) RequiredDirections() []Direction {
	if d.TripType == TripRoundTrip {
		return []Direction{DirectionOutbound, DirectionInbound}
	}
	return []Direction{DirectionOutbound}
}

// Clone returns a deep copy so callers can mutate without touching stored state.
func (d *BookingDraft) Clone() *BookingDraft {
	c := *d
	if d.OutboundLeg != nil {
		leg := *d.OutboundLeg
		c.OutboundLeg = &leg
	}
	if d.InboundLeg != nil {
		leg := *d.InboundLeg
		c.InboundLeg = &leg
	}
	c.OutboundExtras = cloneExtras(d.OutboundExtras)
	c.InboundExtras = cloneExtras(d.InboundExtras)
	c.OutboundSeats = cloneSeats(d.OutboundSeats)
	c.InboundSeats = cloneSeats(d.InboundSeats)
	if d.Passenger != nil {
		p := *d.Passenger
		c.Passenger = &p
	}
	if d.Contact != nil {
		ct := *d.Contact
		c.Contact = &ct
	}
	return &c
}

func cloneExtras(e *ExtraSelection) *ExtraSelection {
	if e == nil {
		return nil
	}
	c := ExtraSelection{LegDirection: e.LegDirection}
	if e.BaggageTierID != nil {
		v := *e.BaggageTierID
		c.BaggageTierID = &v
	}
	if e.MealID != nil {
		v := *e.MealID
		c.MealID = &v
	}
	return &c
}

func cloneSeats(s *SeatAssignment) *SeatAssignment {
	if s == nil {
		return nil
	}
	c := SeatAssignment{LegDirection: s.LegDirection}
	c.SeatIDs = append(c.SeatIDs, s.SeatIDs...)
	return &c
}

// DraftPatch carries a partial update. Only non-nil fields are merged into the
// stored draft, so a step never clobbers fragments owned by another step.
type DraftPatch struct {
	TripType       *TripType
	PassengerCount *int
	Currency       *string
	OutboundLeg    *Leg
	InboundLeg     *Leg
	OutboundExtras *ExtraSelection
	InboundExtras  *ExtraSelection
	OutboundSeats  *SeatAssignment
	InboundSeats   *SeatAssignment
	Passenger      *Passenger
	Contact        *Contact
}

// Apply merges the patch into the draft, fragment by fragment.
func (d *BookingDraft) Apply(p DraftPatch) {
	if p.TripType != nil {
		d.TripType = *p.TripType
	}
	if p.PassengerCount != nil {
		d.PassengerCount = *p.PassengerCount
	}
	if p.Currency != nil {
		d.Currency = *p.Currency
	}
	if p.OutboundLeg != nil {
		leg := *p.OutboundLeg
		d.OutboundLeg = &leg
	}
	if p.InboundLeg != nil {
		leg := *p.InboundLeg
		d.InboundLeg = &leg
	}
	if p.OutboundExtras != nil {
		d.OutboundExtras = cloneExtras(p.OutboundExtras)
	}
	if p.InboundExtras != nil {
		d.InboundExtras = cloneExtras(p.InboundExtras)
	}
	if p.OutboundSeats != nil {
		d.OutboundSeats = cloneSeats(p.OutboundSeats)
	}
	if p.InboundSeats != nil {
		d.InboundSeats = cloneSeats(p.InboundSeats)
	}
	if p.Passenger != nil {
		pa := *p.Passenger
		d.Passenger = &pa
	}
	if p.Contact != nil {
		ct := *p.Contact
		d.Contact = &ct
	}
}

// LegPatch builds a patch setting the leg for the given direction.
func LegPatch(dir Direction, leg *Leg) DraftPatch {
	if dir == DirectionInbound {
		return DraftPatch{InboundLeg: leg}
	}
	return DraftPatch{OutboundLeg: leg}
}

// ExtrasPatch builds a patch setting the extras fragment for the given direction.
func ExtrasPatch(dir Direction, extras *ExtraSelection) DraftPatch {
	if dir == DirectionInbound {
		return DraftPatch{InboundExtras: extras}
	}
	return DraftPatch{OutboundExtras: extras}
}

// SeatsPatch builds a patch setting the seat fragment for the given direction.
func SeatsPatch(dir Direction, seats *SeatAssignment) DraftPatch {
	if dir == DirectionInbound {
		return DraftPatch{InboundSeats: seats}
	}
	return DraftPatch{OutboundSeats: seats}
}

// PriceQuote is the derived pricing of a draft.
type PriceQuote struct {
	BaseFare    int64  `json:"base_fare"`
	ExtrasTotal int64  `json:"extras_total"`
	GrandTotal  int64  `json:"grand_total"`
	Currency    string `json:"currency"`
}

// SubmissionState tracks one submission attempt through the coordinator.
type SubmissionState string

const (
	SubmissionDraft      SubmissionState = "DRAFT"
	SubmissionValidating SubmissionState = "VALIDATING"
	SubmissionSubmitting SubmissionState = "SUBMITTING"
	SubmissionConfirmed  SubmissionState = "CONFIRMED"
	SubmissionRejected   SubmissionState = "REJECTED"
	SubmissionFailed     SubmissionState = "FAILED"
)

type FailureKind string

const (
	FailureAuth      FailureKind = "auth"
	FailureTransient FailureKind = "transient"
	FailureIntegrity FailureKind = "integrity"
)

// SubmissionResult is the typed outcome of a submission attempt. Rejected means
// validation stopped the attempt before any network call; Failed leaves the
// draft untouched so the user can retry without re-entering data.
type SubmissionResult struct {
	State    SubmissionState `json:"state"`
	PNR      string          `json:"pnr,omitempty"`
	Field    string          `json:"field,omitempty"`
	Reason   string          `json:"reason,omitempty"`
	Kind     FailureKind     `json:"kind,omitempty"`
	Message  string          `json:"message,omitempty"`
	Reauth   bool            `json:"reauth,omitempty"`
	Total    int64           `json:"total,omitempty"`
	Currency string          `json:"currency,omitempty"`
}

func Confirmed(pnr string, total int64, currency string) *SubmissionResult {
	return &SubmissionResult{State: SubmissionConfirmed, PNR: pnr, Total: total, Currency: currency}
}

func Rejected(field, reason string) *SubmissionResult {
	return &SubmissionResult{State: SubmissionRejected, Field: field, Reason: reason}
}

func Failed(kind FailureKind, message string) *SubmissionResult {
	return &SubmissionResult{State: SubmissionFailed, Kind: kind, Message: message, Reauth: kind == FailureAuth}
}
