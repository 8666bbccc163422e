package booking

import (
	"fmt"

	"salon-booking/internal/model"
)

var catalog = []model.Service{
	{ID: "basic-cut", Name: "Basic Haircut", Description: "Classic cut and finish.", DurationMinutes: 30, PriceCents: 3500, Category: "Haircut", Popular: true},
	{ID: "restyle", Name: "Restyle Cut", Description: "Transformative cut with consultation.", DurationMinutes: 60, PriceCents: 5500, Category: "Haircut"},
	{ID: "full-color", Name: "Full Color", Description: "Single-process color application.", DurationMinutes: 90, PriceCents: 9000, Category: "Color"},
	{ID: "highlights", Name: "Highlights", Description: "Partial or full highlights.", DurationMinutes: 120, PriceCents: 12000, Category: "Color"},
	{ID: "blowout", Name: "Blowout", Description: "Wash and blow-dry style.", DurationMinutes: 45, PriceCents: 4000, Category: "Styling"},
	{ID: "keratin", Name: "Keratin Treatment", Description: "Smoothing treatment for frizz control.", DurationMinutes: 120, PriceCents: 16000, Category: "Treatment"},
}

// Services returns a copy of the service menu in display order.
func Services() []model.Service {
	return append([]model.Service(nil), catalog...)
}

func ServiceByID(id string) (model.Service, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return model.Service{}, false
}

// DefaultServiceID keeps a known requested id and falls back to the first entry.
func DefaultServiceID(requested string) string {
	if _, ok := ServiceByID(requested); ok {
		return requested
	}
	return catalog[0].ID
}

// FormatPrice renders cents as $D.CC.
func FormatPrice(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
