package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/nepkart/app/services"
	"github.com/shashiranjanraj/nepkart/pkg/bind"
	"github.com/shashiranjanraj/nepkart/pkg/ctx"
)

// PricingController serves shipping quotes and tax rates.
type PricingController struct {
	shipping *services.ShippingService
	tax      *services.TaxService
}

func NewPricingController() *PricingController {
	return &PricingController{shipping: services.NewShippingService(), tax: services.NewTaxService()}
}

// Shipping quotes a cart of [{quantity, weight}] lines.
func (pc *PricingController) Shipping(c *ctx.Context) {
	var items []services.CartItem
	if err := bind.Decode(c.R, &items); err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return
	}
	for _, it := range items {
		if it.Quantity < 0 || (it.Weight != nil && it.Weight.IsNegative()) {
			c.ValidationError(map[string]string{"items": "Quantities and weights must not be negative."})
			return
		}
	}
	c.Success(map[string]interface{}{"shippingCost": pc.shipping.CostForCart(items)})
}

// TaxRate returns the rate for ?state=, else ?zip=, else zero.
func (pc *PricingController) TaxRate(c *ctx.Context) {
	rate := decimal.Zero
	switch state, zip := strings.TrimSpace(c.Query("state")), strings.TrimSpace(c.Query("zip")); {
	case state != "":
		rate = pc.tax.RateForState(state)
	case zip != "":
		rate = pc.tax.RateForZip(zip)
	}
	c.Success(map[string]interface{}{"rate": rate})
}
