package entity

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

type Booking struct {
	ID                string        `json:"booking_id" db:"booking_id"`
	CustomerID        string        `json:"customer_id" db:"customer_id"`
	FlightNumber      string        `json:"flight_number" db:"flight_number"`
	Origin            string        `json:"origin" db:"origin"`
	Destination       string        `json:"destination" db:"destination"`
	DepartDate        string        `json:"depart_date" db:"depart_date"`
	DepartureTime     string        `json:"departure_time" db:"departure_time"`
	Price             int           `json:"price" db:"price"`
	Status            BookingStatus `json:"status" db:"status"`
	ConfirmationCode  string        `json:"confirmation_code" db:"confirmation_code"`
	SeatNumber        string        `json:"seat_number" db:"seat_number"`
	Gate              string        `json:"gate" db:"gate"`
	Terminal          string        `json:"terminal" db:"terminal"`
	OriginalBookingID string        `json:"original_booking_id,omitempty" db:"original_booking_id"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
}

func (b Booking) Validate() map[string]string {
	errs := map[string]string{}

	if b.CustomerID == "" {
		errs["customer_id"] = "customer id is required"
	}
	if b.FlightNumber == "" {
		errs["flight_number"] = "flight number is required"
	} else if len(b.FlightNumber) > 20 {
		errs["flight_number"] = "flight number must be 20 characters or less"
	}
	if b.Origin == "" {
		errs["origin"] = "origin is required"
	} else if len(b.Origin) > 10 {
		errs["origin"] = "origin must be 10 characters or less"
	}
	if b.Destination == "" {
		errs["destination"] = "destination is required"
	} else if len(b.Destination) > 10 {
		errs["destination"] = "destination must be 10 characters or less"
	}
	if b.DepartDate == "" {
		errs["depart_date"] = "departure date is required"
	} else if _, err := time.Parse("2006-01-02", b.DepartDate); err != nil {
		errs["depart_date"] = "departure date must be in YYYY-MM-DD format"
	}

	return errs
}

// CandidateFlight is one rebooking candidate returned by the inventory
// collaborator.
type CandidateFlight struct {
	FlightNumber   string `json:"flight_number"`
	DepartureTime  string `json:"departure_time"`
	Price          int    `json:"price"`
	SeatsAvailable int    `json:"seats_available"`
	AircraftType   string `json:"aircraft_type,omitempty"`
	Duration       string `json:"duration,omitempty"`
}

type CostBreakdown struct {
	OriginalPrice   int `json:"original_price"`
	NewPrice        int `json:"new_price"`
	PriceDifference int `json:"price_difference"`
	ChangeFee       int `json:"change_fee"`
	TotalCost       int `json:"total_cost"`
	RefundAmount    int `json:"refund_amount"`
}

// NewCostBreakdown computes the cost impact of moving from originalPrice to
// newPrice. The upgrade fee applies when the new fare costs the same or more,
// the downgrade fee when it is cheaper.
func NewCostBreakdown(originalPrice, newPrice, upgradeFee, downgradeFee int) CostBreakdown {
	difference := newPrice - originalPrice

	fee := upgradeFee
	if difference < 0 {
		fee = downgradeFee
	}

	breakdown := CostBreakdown{
		OriginalPrice:   originalPrice,
		NewPrice:        newPrice,
		PriceDifference: difference,
		ChangeFee:       fee,
		TotalCost:       fee,
	}
	if difference > 0 {
		breakdown.TotalCost = difference + fee
	} else {
		breakdown.RefundAmount = -difference
	}

	return breakdown
}

type RebookingOption struct {
	Candidate  CandidateFlight `json:"candidate"`
	Cost       CostBreakdown   `json:"cost"`
	OverBudget bool            `json:"over_budget"`
}

// ChangeSummary is the response of an auto-rebook: both flights, the fresh
// confirmation code and the cost impact.
type ChangeSummary struct {
	OriginalFlight   string        `json:"original_flight"`
	NewFlight        string        `json:"new_flight"`
	OriginalDate     string        `json:"original_date"`
	NewDate          string        `json:"new_date"`
	ConfirmationCode string        `json:"confirmation_code"`
	NewBooking       Booking       `json:"new_booking"`
	Cost             CostBreakdown `json:"cost"`
}
