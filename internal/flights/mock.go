package flights

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/airdesk-ai/airdesk/internal/conversation"
)

// route carries the schedule profile of a city pair.
type route struct {
	from, to     string
	durationMin  int
	typicalPrice int
}

var commonRoutes = []route{
	{"DEL", "BOM", 130, 4500},
	{"DEL", "BLR", 155, 6500},
	{"DEL", "MAA", 165, 7000},
	{"BOM", "DEL", 130, 4500},
	{"BOM", "BLR", 100, 4000},
	{"BOM", "HYD", 80, 3500},
	{"BLR", "DEL", 155, 6500},
	{"BLR", "BOM", 100, 4000},
	{"DEL", "GOI", 180, 5500},
	{"DEL", "JAI", 60, 3000},
}

type aircraftType struct {
	model string
	seats int
}

var aircraftTypes = []aircraftType{
	{"Airbus A320", 180},
	{"Airbus A321", 220},
	{"Boeing 787-8", 256},
	{"Boeing 777-300ER", 342},
	{"Airbus A319", 144},
}

var (
	baseTimes        = []string{"06:00", "09:30", "14:15", "18:45", "21:00"}
	flightStatuses   = []string{"Scheduled", "On Time", "Boarding"}
	checkedBaggage   = []string{"15 kg", "23 kg", "25 kg", "30 kg"}
	terminalLetters  = []string{"T1", "T2", "T3"}
	classMultipliers = []struct {
		name       string
		multiplier float64
	}{
		{"Economy", 1.0},
		{"Premium Economy", 1.5},
		{"Business", 3.0},
		{"First", 5.0},
	}
)

// MockSource generates plausible schedules on demand. It stands in for
// a real reservation system; routes, fleet and fares follow typical
// Air India patterns.
type MockSource struct {
	mu            sync.Mutex
	rng           *rand.Rand
	resultsPerDay int
	now           func() time.Time
}

// MockOption configures a MockSource.
type MockOption func(*MockSource)

// WithSeed makes the generated schedules deterministic.
func WithSeed(seed int64) MockOption {
	return func(s *MockSource) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithResultsPerDay bounds how many flights a search returns.
func WithResultsPerDay(n int) MockOption {
	return func(s *MockSource) {
		if n > 0 {
			s.resultsPerDay = n
		}
	}
}

// WithClock overrides the time source, for date resolution in tests.
func WithClock(now func() time.Time) MockOption {
	return func(s *MockSource) {
		s.now = now
	}
}

// NewMockSource creates a mock flight source.
func NewMockSource(opts ...MockOption) *MockSource {
	s := &MockSource{
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		resultsPerDay: 3,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search generates flights for a route and date, ordered by departure
// time. Both airports must be known.
func (s *MockSource) Search(_ context.Context, origin, destination, date string) ([]conversation.FlightRecord, error) {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))

	if err := validateAirport(origin); err != nil {
		return nil, err
	}
	if err := validateAirport(destination); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	flightDate := s.resolveDate(date)
	r := s.routeFor(origin, destination)

	count := s.resultsPerDay
	if count > len(baseTimes) {
		count = len(baseTimes)
	}
	times := append([]string(nil), baseTimes...)
	s.rng.Shuffle(len(times), func(i, j int) { times[i], times[j] = times[j], times[i] })
	times = times[:count]
	sort.Strings(times)

	flights := make([]conversation.FlightRecord, 0, count)
	for _, departure := range times {
		flights = append(flights, s.buildFlight(r, departure, flightDate))
	}
	return flights, nil
}

// FlightDetails fabricates a record for a specific flight number, used
// when a follow-up names a flight outside the cached result set.
func (s *MockSource) FlightDetails(_ context.Context, flightNumber, date string) (conversation.FlightRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := commonRoutes[s.rng.Intn(len(commonRoutes))]
	departure := baseTimes[s.rng.Intn(len(baseTimes))]
	flight := s.buildFlight(r, departure, s.resolveDate(date))
	flight.FlightNumber = strings.ToUpper(strings.TrimSpace(flightNumber))
	return flight, nil
}

func (s *MockSource) routeFor(origin, destination string) route {
	for _, r := range commonRoutes {
		if r.from == origin && r.to == destination {
			return r
		}
	}
	return route{
		from:         origin,
		to:           destination,
		durationMin:  60 + s.rng.Intn(181),
		typicalPrice: 3000 + s.rng.Intn(7001),
	}
}

func (s *MockSource) buildFlight(r route, departure string, date time.Time) conversation.FlightRecord {
	depTime, _ := time.Parse("15:04", departure)
	arrival := depTime.Add(time.Duration(r.durationMin) * time.Minute).Format("15:04")

	aircraft := aircraftTypes[s.rng.Intn(len(aircraftTypes))]
	price := r.typicalPrice + s.rng.Intn(1001) - 500
	if price < 2000 {
		price = 2000
	}

	prices := make(map[string]string, len(classMultipliers))
	for _, c := range classMultipliers {
		prices[c.name] = fmt.Sprintf("₹%s", formatThousands(int(float64(price)*c.multiplier)))
	}

	return conversation.FlightRecord{
		FlightNumber:   s.flightNumber(),
		Origin:         r.from,
		Destination:    r.to,
		DepartureTime:  departure,
		ArrivalTime:    arrival,
		Duration:       fmt.Sprintf("%dh %dm", r.durationMin/60, r.durationMin%60),
		Date:           date.Format("2006-01-02"),
		Aircraft:       aircraft.model,
		Status:         flightStatuses[s.rng.Intn(len(flightStatuses))],
		Terminal:       terminalLetters[s.rng.Intn(len(terminalLetters))],
		Gate:           fmt.Sprintf("%c%d", 'A'+rune(s.rng.Intn(3)), 1+s.rng.Intn(50)),
		Prices:         prices,
		AvailableSeats: 10 + s.rng.Intn(aircraft.seats-29),
		Baggage: conversation.BaggageAllowance{
			Cabin:   "7 kg",
			Checked: checkedBaggage[s.rng.Intn(len(checkedBaggage))],
		},
	}
}

func (s *MockSource) flightNumber() string {
	prefix := "AI"
	if s.rng.Intn(4) == 0 {
		prefix = "AIX"
	}
	return fmt.Sprintf("%s %d", prefix, 100+s.rng.Intn(900))
}

// resolveDate turns the extractor's relative date tokens into a
// calendar date. Unparseable input falls back to tomorrow.
func (s *MockSource) resolveDate(date string) time.Time {
	today := s.now()
	switch strings.ToLower(strings.TrimSpace(date)) {
	case "today":
		return today
	case "tomorrow", "":
		return today.AddDate(0, 0, 1)
	case "next_week", "next week":
		return today.AddDate(0, 0, 7)
	}
	if parsed, err := time.Parse("2006-01-02", date); err == nil {
		return parsed
	}
	return today.AddDate(0, 0, 1)
}

// formatThousands groups an amount into thousands for fare display.
func formatThousands(n int) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte(',')
		}
	}
	return b.String()
}
