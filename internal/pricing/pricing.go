package pricing

// ServiceType identifies one of the cleaning packages customers can book.
type ServiceType string

const (
	ServiceRegular   ServiceType = "regular"
	ServiceDeep      ServiceType = "deep"
	ServiceMoveInOut ServiceType = "move_in_out"
	ServiceAirbnb    ServiceType = "airbnb"
)

// MaxBedrooms is the largest bedroom count quoted; it stands for "4 or more".
const MaxBedrooms = 4

// RushFee is the flat same-day surcharge in whole dollars.
const RushFee = 50

type rate struct {
	base       int
	perBedroom int
}

// Rates were set with the owner; all amounts are whole dollars.
var rates = map[ServiceType]rate{
	ServiceRegular:   {base: 120, perBedroom: 30},
	ServiceDeep:      {base: 180, perBedroom: 40},
	ServiceMoveInOut: {base: 220, perBedroom: 50},
	ServiceAirbnb:    {base: 100, perBedroom: 25},
}

// DisplayName returns the customer-facing name of a service type.
func (s ServiceType) DisplayName() string {
	switch s {
	case ServiceRegular:
		return "Regular Clean"
	case ServiceDeep:
		return "Deep Clean"
	case ServiceMoveInOut:
		return "Move In/Out Clean"
	case ServiceAirbnb:
		return "Airbnb Turnover"
	}
	return string(s)
}

// Valid reports whether s is a known service type.
func (s ServiceType) Valid() bool {
	_, ok := rates[s]
	return ok
}

// ServiceByMenuIndex maps a 1-based menu selection to a service type.
func ServiceByMenuIndex(n int) (ServiceType, bool) {
	switch n {
	case 1:
		return ServiceRegular, true
	case 2:
		return ServiceDeep, true
	case 3:
		return ServiceMoveInOut, true
	case 4:
		return ServiceAirbnb, true
	}
	return "", false
}

// Quote computes the price in whole dollars for a validated selection.
// bedrooms below 1 are priced as 1; sameDay adds the rush fee exactly once.
// The caller is responsible for validating the service type.
func Quote(service ServiceType, bedrooms int, sameDay bool) int {
	r := rates[service]
	extra := bedrooms - 1
	if extra < 0 {
		extra = 0
	}
	price := r.base + r.perBedroom*extra
	if sameDay {
		price += RushFee
	}
	return price
}

// BasePrice returns the one-bedroom price for a service, used in the
// static PRICE keyword reply.
func BasePrice(service ServiceType) int {
	return rates[service].base
}
