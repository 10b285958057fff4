package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/app/services"
)

// ProductQuantities decodes {"<productId>": <quantity>, ...} keeping the
// key order of the document. A repeated key keeps its first position and
// its last value.
type ProductQuantities []services.LineRequest

func (p *ProductQuantities) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("productQuantities must be an object")
	}

	index := map[uint]int{}
	var out ProductQuantities
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil || id == 0 {
			return fmt.Errorf("productQuantities: %q is not a product id", key)
		}
		var qty int
		if err := dec.Decode(&qty); err != nil {
			return fmt.Errorf("productQuantities: quantity for %s: %w", key, err)
		}
		if i, ok := index[uint(id)]; ok {
			out[i].Quantity = qty
			continue
		}
		index[uint(id)] = len(out)
		out = append(out, services.LineRequest{ProductID: uint(id), Quantity: qty})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

// CreateOrderRequest is the checkout body.
type CreateOrderRequest struct {
	Customer          models.Customer   `json:"customer"`
	ProductQuantities ProductQuantities `json:"productQuantities"`
}

// UpdateStatusRequest is the body of PUT /orders/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
