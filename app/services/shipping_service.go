package services

import "github.com/shopspring/decimal"

var (
	shipUnder1  = decimal.RequireFromString("5.99")
	shipUnder5  = decimal.RequireFromString("12.99")
	shipUnder10 = decimal.RequireFromString("19.99")
	shipHeavy   = decimal.RequireFromString("29.99")

	one  = decimal.NewFromInt(1)
	five = decimal.NewFromInt(5)
	ten  = decimal.NewFromInt(10)

	// defaultUnitWeight applies to cart lines that carry no weight.
	defaultUnitWeight = decimal.RequireFromString("0.5")
)

// CartItem is a shipping-quote line; a nil Weight means unknown.
type CartItem struct {
	Quantity int              `json:"quantity"`
	Weight   *decimal.Decimal `json:"weight"`
}

// WeightedLine is a line whose product weight is known.
type WeightedLine struct {
	Quantity int
	Weight   decimal.Decimal
}

// ShippingService prices shipping by total weight in kg.
type ShippingService struct{}

func NewShippingService() *ShippingService {
	return &ShippingService{}
}

// CostForWeight maps a total weight onto its flat tier price.
func (s *ShippingService) CostForWeight(kg decimal.Decimal) decimal.Decimal {
	switch {
	case kg.LessThan(one):
		return shipUnder1
	case kg.LessThan(five):
		return shipUnder5
	case kg.LessThan(ten):
		return shipUnder10
	default:
		return shipHeavy
	}
}

// CostForCart prices a quote request, assuming 0.5 kg per unit when a
// line has no weight.
func (s *ShippingService) CostForCart(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		w := defaultUnitWeight
		if it.Weight != nil {
			w = *it.Weight
		}
		total = total.Add(w.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return s.CostForWeight(total)
}

// CostForProducts prices lines whose weights are all known.
func (s *ShippingService) CostForProducts(lines []WeightedLine) decimal.Decimal {
	return s.CostForWeight(TotalWeight(lines))
}

// TotalWeight is Σ weight × quantity.
func TotalWeight(lines []WeightedLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Weight.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
