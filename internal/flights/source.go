package flights

import (
	"context"
	"errors"
	"fmt"

	"github.com/airdesk-ai/airdesk/internal/airline"
	"github.com/airdesk-ai/airdesk/internal/conversation"
)

// ErrUnknownAirport is returned when a search names an airport code
// outside the registry.
var ErrUnknownAirport = errors.New("unknown airport code")

// Source provides flight schedules. Implementations return flights
// ordered by departure time.
type Source interface {
	Search(ctx context.Context, origin, destination, date string) ([]conversation.FlightRecord, error)
	FlightDetails(ctx context.Context, flightNumber, date string) (conversation.FlightRecord, error)
}

func validateAirport(code string) error {
	if _, ok := airline.Lookup(code); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAirport, code)
	}
	return nil
}
