// Package catalog holds the static registry of bookable salon services.
package catalog

import "errors"

// ErrServiceNotFound is returned when a service name does not resolve.
var ErrServiceNotFound = errors.New("service not found in catalog")

// Category groups services on the booking form.
type Category string

const (
	CategoryNails    Category = "nails"
	CategoryEyebrows Category = "eyebrows"
)

// Service is a bookable salon service. Prices are in centavos.
type Service struct {
	Name       string   `json:"name"`
	PriceCents int64    `json:"price_cents"`
	Category   Category `json:"category"`
}

// Price returns the price as a decimal currency amount.
func (s Service) Price() float64 {
	return float64(s.PriceCents) / 100
}

// Catalog is an immutable set of services, defined at process start.
type Catalog struct {
	services []Service
	byName   map[string]Service
}

// Default returns the salon's standard service list.
func Default() *Catalog {
	return New([]Service{
		{Name: "Gel na tips", PriceCents: 12000, Category: CategoryNails},
		{Name: "Manutenção gel", PriceCents: 6000, Category: CategoryNails},
		{Name: "Banho de gel", PriceCents: 10000, Category: CategoryNails},
		{Name: "Manicure", PriceCents: 3500, Category: CategoryNails},
		{Name: "Pedicure", PriceCents: 3500, Category: CategoryNails},
		{Name: "Combo Mani + Pedi", PriceCents: 6000, Category: CategoryNails},
		{Name: "Designer com Henna", PriceCents: 3500, Category: CategoryEyebrows},
		{Name: "Designer Natural", PriceCents: 2500, Category: CategoryEyebrows},
	})
}

// New builds a catalog from the given services.
func New(services []Service) *Catalog {
	byName := make(map[string]Service, len(services))
	for _, svc := range services {
		byName[svc.Name] = svc
	}
	return &Catalog{services: services, byName: byName}
}

// Resolve looks up a service by its exact name.
func (c *Catalog) Resolve(name string) (Service, error) {
	svc, ok := c.byName[name]
	if !ok {
		return Service{}, ErrServiceNotFound
	}
	return svc, nil
}

// Services returns all services in form order.
func (c *Catalog) Services() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

// ByCategory returns the services that belong to the given category.
func (c *Catalog) ByCategory(cat Category) []Service {
	var out []Service
	for _, svc := range c.services {
		if svc.Category == cat {
			out = append(out, svc)
		}
	}
	return out
}
