package services

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// stateRates holds 2026 combined state and local sales tax rates.
var stateRates = map[string]decimal.Decimal{
	"AL": decimal.RequireFromString("0.0946"),
	"AK": decimal.RequireFromString("0.0182"),
	"AZ": decimal.RequireFromString("0.0852"),
	"AR": decimal.RequireFromString("0.0946"),
	"CA": decimal.RequireFromString("0.0899"),
	"CO": decimal.RequireFromString("0.0789"),
	"CT": decimal.RequireFromString("0.0635"),
	"DE": decimal.RequireFromString("0.0000"),
	"FL": decimal.RequireFromString("0.0698"),
	"GA": decimal.RequireFromString("0.0749"),
	"HI": decimal.RequireFromString("0.0450"),
	"ID": decimal.RequireFromString("0.0603"),
	"IL": decimal.RequireFromString("0.0896"),
	"IN": decimal.RequireFromString("0.0700"),
	"IA": decimal.RequireFromString("0.0694"),
	"KS": decimal.RequireFromString("0.0869"),
	"KY": decimal.RequireFromString("0.0600"),
	"LA": decimal.RequireFromString("0.1011"),
	"ME": decimal.RequireFromString("0.0550"),
	"MD": decimal.RequireFromString("0.0600"),
	"MA": decimal.RequireFromString("0.0625"),
	"MI": decimal.RequireFromString("0.0600"),
	"MN": decimal.RequireFromString("0.0814"),
	"MS": decimal.RequireFromString("0.0706"),
	"MO": decimal.RequireFromString("0.0844"),
	"MT": decimal.RequireFromString("0.0000"),
	"NE": decimal.RequireFromString("0.0698"),
	"NV": decimal.RequireFromString("0.0824"),
	"NH": decimal.RequireFromString("0.0000"),
	"NJ": decimal.RequireFromString("0.0660"),
	"NM": decimal.RequireFromString("0.0767"),
	"NY": decimal.RequireFromString("0.0854"),
	"NC": decimal.RequireFromString("0.0700"),
	"ND": decimal.RequireFromString("0.0709"),
	"OH": decimal.RequireFromString("0.0729"),
	"OK": decimal.RequireFromString("0.0906"),
	"OR": decimal.RequireFromString("0.0000"),
	"PA": decimal.RequireFromString("0.0634"),
	"RI": decimal.RequireFromString("0.0700"),
	"SC": decimal.RequireFromString("0.0749"),
	"SD": decimal.RequireFromString("0.0611"),
	"TN": decimal.RequireFromString("0.0961"),
	"TX": decimal.RequireFromString("0.0820"),
	"UT": decimal.RequireFromString("0.0742"),
	"VT": decimal.RequireFromString("0.0639"),
	"VA": decimal.RequireFromString("0.0577"),
	"WA": decimal.RequireFromString("0.0951"),
	"WV": decimal.RequireFromString("0.0659"),
	"WI": decimal.RequireFromString("0.0572"),
	"WY": decimal.RequireFromString("0.0556"),
	"DC": decimal.RequireFromString("0.0600"),
}

type zipRange struct {
	lo, hi int
	state  string
}

// zipRanges is scanned in order; the first match wins. Alaska sits ahead
// of Washington so 995-999 resolve to AK. Hawaii (967-968) stays inside
// the California range.
var zipRanges = []zipRange{
	{100, 149, "NY"}, {150, 196, "PA"}, {197, 199, "DE"}, {200, 205, "DC"},
	{206, 219, "MD"}, {220, 246, "VA"}, {247, 269, "WV"}, {270, 289, "NC"},
	{290, 299, "SC"}, {300, 319, "GA"}, {320, 349, "FL"}, {350, 369, "AL"},
	{370, 385, "TN"}, {386, 397, "MS"}, {398, 399, "GA"}, {400, 429, "KY"},
	{430, 459, "OH"}, {460, 479, "IN"}, {480, 499, "MI"}, {500, 529, "IA"},
	{530, 549, "WI"}, {550, 569, "MN"}, {570, 579, "SD"}, {580, 589, "ND"},
	{590, 599, "MT"}, {600, 629, "IL"}, {630, 659, "MO"}, {660, 679, "KS"},
	{680, 699, "NE"}, {700, 715, "LA"}, {716, 729, "AR"}, {730, 749, "OK"},
	{750, 799, "TX"}, {800, 819, "CO"}, {820, 839, "WY"}, {840, 849, "UT"},
	{850, 869, "AZ"}, {870, 889, "NM"}, {890, 899, "NV"}, {900, 969, "CA"},
	{967, 968, "HI"}, {970, 979, "OR"}, {995, 999, "AK"}, {980, 999, "WA"},
	// New England ZIPs lose their leading zero when read as an integer.
	{0, 27, "MA"}, {28, 29, "RI"}, {30, 38, "NH"}, {39, 49, "ME"}, {50, 54, "VT"},
}

// TaxService resolves sales tax rates by state or ZIP code.
type TaxService struct{}

func NewTaxService() *TaxService {
	return &TaxService{}
}

// RateForState returns the rate for a two-letter state code, or zero.
func (s *TaxService) RateForState(code string) decimal.Decimal {
	if r, ok := stateRates[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return r
	}
	return decimal.Zero
}

// RateForZip returns the rate for the state guessed from zip, or zero.
func (s *TaxService) RateForZip(zip string) decimal.Decimal {
	state, ok := s.StateForZip(zip)
	if !ok {
		return decimal.Zero
	}
	return s.RateForState(state)
}

// CalculateTax is subtotal × RateForZip(zip), rounded half-up to cents.
func (s *TaxService) CalculateTax(subtotal decimal.Decimal, zip string) decimal.Decimal {
	if subtotal.IsZero() {
		return decimal.Zero
	}
	return subtotal.Mul(s.RateForZip(zip)).Round(2)
}

// StateForZip guesses a state from the first three digits of zip.
func (s *TaxService) StateForZip(raw string) (string, bool) {
	zip := strings.TrimSpace(raw)
	if zip == "" {
		return "", false
	}

	head := zip
	if len(head) > 3 {
		head = head[:3]
	}
	prefix, err := strconv.Atoi(head)
	if err != nil {
		return "", false
	}

	for _, r := range zipRanges {
		if prefix >= r.lo && prefix <= r.hi {
			return r.state, true
		}
	}

	switch zip[0] {
	case '0', '1', '2':
		return "MA", true
	case '3':
		return "NH", true
	case '4':
		return "ME", true
	case '5':
		return "VT", true
	}
	return "", false
}
