package services

import "github.com/shashiranjanraj/nepkart/app/models"

// Order lifecycle events fired after the change is committed.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusUpdated = "order.status_updated"
	EventOrderDeleted       = "order.deleted"
)

// OrderEvent is the payload of every order event.
type OrderEvent struct {
	Order models.Order
}
