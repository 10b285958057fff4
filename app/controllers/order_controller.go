package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/app/services"
	"github.com/shashiranjanraj/nepkart/pkg/bind"
	"github.com/shashiranjanraj/nepkart/pkg/ctx"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// Store runs a checkout.
func (oc *OrderController) Store(c *ctx.Context) {
	var req CreateOrderRequest
	if err := bind.Decode(c.R, &req); err != nil {
		c.SetHeader(ErrorHeader, err.Error())
		c.Error(http.StatusBadRequest, err.Error())
		return
	}

	req.Customer.Normalize()
	if errs := req.Customer.Validate(); len(errs) > 0 {
		prefixed := make(map[string]string, len(errs))
		for k, v := range errs {
			prefixed["customer."+k] = v
		}
		c.ValidationError(prefixed)
		return
	}

	order, err := oc.orders.CreateOrder(c.Context(), req.Customer, req.ProductQuantities)
	if err != nil {
		failCheckout(c, err)
		return
	}
	c.Created(order)
}

// Index lists orders newest first.
func (oc *OrderController) Index(c *ctx.Context) {
	orders, page, err := oc.orders.All(c.Context(), c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		fail(c, err)
		return
	}
	c.Paginated(orders, page)
}

func (oc *OrderController) Show(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Order not found")
		return
	}
	order, err := oc.orders.Find(c.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(order)
}

// ShowByCode is the public order-tracking lookup.
func (oc *OrderController) ShowByCode(c *ctx.Context) {
	order, err := oc.orders.FindByCode(c.Context(), c.Param("code"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(order)
}

func (oc *OrderController) UpdateStatus(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Order not found")
		return
	}
	var req UpdateStatusRequest
	if !c.BindJSON(&req) {
		return
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		c.ValidationError(map[string]string{"status": "The selected status is invalid."})
		return
	}

	order, err := oc.orders.UpdateStatus(c.Context(), id, status)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(order)
}

func (oc *OrderController) Destroy(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		c.NotFound("Order not found")
		return
	}
	if err := oc.orders.Delete(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
