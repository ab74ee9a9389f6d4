// Package rebooking plans flight changes: it ranks inventory candidates by
// cost impact and performs the atomic booking swap.
package rebooking

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"

	"flightops/entity"
)

type Inventory interface {
	CandidatesFor(ctx context.Context, origin, destination, date string) ([]entity.CandidateFlight, error)
}

type BookingsRepository interface {
	// Rebook cancels original and stores next in a single transaction; no
	// partial outcome may survive a failure.
	Rebook(ctx context.Context, original entity.Booking, next entity.Booking, totalCost int) error
}

// Policy holds the change-fee schedule and the budget tolerance.
type Policy struct {
	ChangeFee              int
	DowngradeChangeFee     int
	BudgetTolerancePercent int
}

func DefaultPolicy() Policy {
	return Policy{
		ChangeFee:              500,
		DowngradeChangeFee:     200,
		BudgetTolerancePercent: 10,
	}
}

type Planner struct {
	inventory Inventory
	bookings  BookingsRepository
	policy    Policy
}

func NewPlanner(inventory Inventory, bookings BookingsRepository, policy Policy) Planner {
	if inventory == nil {
		panic("missing inventory")
	}
	if bookings == nil {
		panic("missing bookings repository")
	}
	return Planner{
		inventory: inventory,
		bookings:  bookings,
		policy:    policy,
	}
}

// PlanOptions ranks candidate flights for booking on newDate by ascending
// total cost, ties broken by closeness of departure time to the original.
//
// With a budget, candidates whose fare exceeds budget plus tolerance are cut,
// unless that would cut everything: then the full ranked list comes back with
// each over-budget option flagged. Options are only empty when inventory is.
func (p Planner) PlanOptions(ctx context.Context, booking entity.Booking, newDate string, budget *int) ([]entity.RebookingOption, error) {
	candidates, err := p.inventory.CandidatesFor(ctx, booking.Origin, booking.Destination, newDate)
	if err != nil {
		return nil, fmt.Errorf("could not fetch inventory for %s-%s on %s: %w", booking.Origin, booking.Destination, newDate, err)
	}

	options := make([]entity.RebookingOption, 0, len(candidates))
	for _, candidate := range candidates {
		options = append(options, entity.RebookingOption{
			Candidate:  candidate,
			Cost:       entity.NewCostBreakdown(booking.Price, candidate.Price, p.policy.ChangeFee, p.policy.DowngradeChangeFee),
			OverBudget: budget != nil && candidate.Price > *budget,
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		if options[i].Cost.TotalCost != options[j].Cost.TotalCost {
			return options[i].Cost.TotalCost < options[j].Cost.TotalCost
		}
		return departureDistance(options[i].Candidate.DepartureTime, booking.DepartureTime) <
			departureDistance(options[j].Candidate.DepartureTime, booking.DepartureTime)
	})

	if budget == nil {
		return options, nil
	}

	limit := *budget + *budget*p.policy.BudgetTolerancePercent/100
	within := make([]entity.RebookingOption, 0, len(options))
	for _, option := range options {
		if option.Candidate.Price <= limit {
			within = append(within, option)
		}
	}
	if len(within) == 0 {
		// Nothing satisfies the budget; the caller still gets the ranked
		// list, every option flagged.
		return options, nil
	}
	return within, nil
}

// AutoRebook cancels booking and confirms a new one on the chosen candidate.
// The two writes commit together through the bookings repository; on failure
// the original booking is untouched.
func (p Planner) AutoRebook(ctx context.Context, booking entity.Booking, candidate entity.CandidateFlight, newDate string) (entity.ChangeSummary, error) {
	if booking.Status == entity.BookingStatusCancelled {
		return entity.ChangeSummary{}, entity.ErrAlreadyCancelled
	}
	if newDate == "" {
		newDate = booking.DepartDate
	}

	now := time.Now().UTC()
	seat, gate, terminal := assignSeating(candidate.FlightNumber, newDate)

	next := entity.Booking{
		ID:                uuid.NewString(),
		CustomerID:        booking.CustomerID,
		FlightNumber:      candidate.FlightNumber,
		Origin:            booking.Origin,
		Destination:       booking.Destination,
		DepartDate:        newDate,
		DepartureTime:     candidate.DepartureTime,
		Price:             candidate.Price,
		Status:            entity.BookingStatusConfirmed,
		ConfirmationCode:  newConfirmationCode(),
		SeatNumber:        seat,
		Gate:              gate,
		Terminal:          terminal,
		OriginalBookingID: booking.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	cost := entity.NewCostBreakdown(booking.Price, candidate.Price, p.policy.ChangeFee, p.policy.DowngradeChangeFee)

	if err := p.bookings.Rebook(ctx, booking, next, cost.TotalCost); err != nil {
		return entity.ChangeSummary{}, fmt.Errorf("could not rebook %s onto %s: %w", booking.ID, candidate.FlightNumber, err)
	}

	return entity.ChangeSummary{
		OriginalFlight:   booking.FlightNumber,
		NewFlight:        next.FlightNumber,
		OriginalDate:     booking.DepartDate,
		NewDate:          next.DepartDate,
		ConfirmationCode: next.ConfirmationCode,
		NewBooking:       next,
		Cost:             cost,
	}, nil
}

func newConfirmationCode() string {
	return "AK" + shortuuid.New()[:8]
}

// assignSeating derives seat, gate and terminal from (flight_number, date) so
// a rebooking is reproducible for the same inputs.
func assignSeating(flightNumber, date string) (seat, gate, terminal string) {
	h := fnv.New32a()
	h.Write([]byte(flightNumber + "/" + date))
	n := h.Sum32()

	row := 1 + n%30
	letter := "ABCDEF"[(n/30)%6]
	seat = fmt.Sprintf("%d%c", row, letter)
	gate = fmt.Sprintf("G%d", 1+(n/180)%20)
	terminal = fmt.Sprintf("T%d", 1+(n/3600)%3)
	return seat, gate, terminal
}

// departureDistance is the absolute gap in minutes between two HH:MM times;
// unparsable times sort last.
func departureDistance(a, b string) int {
	ta, errA := time.Parse("15:04", a)
	tb, errB := time.Parse("15:04", b)
	if errA != nil || errB != nil {
		return 1 << 20
	}
	d := ta.Sub(tb)
	if d < 0 {
		d = -d
	}
	return int(d.Minutes())
}
