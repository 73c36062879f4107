package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/kitforge-labs/kitforge-backend/pkg/db/models"
	"github.com/kitforge-labs/kitforge-backend/pkg/pagination"
)

const timeFormat = time.RFC3339

// OrderItemInput is one requested line. SetID is omitted for non-physical
// charges such as shipping or handling fees.
type OrderItemInput struct {
	SetID          *uuid.UUID `json:"set_id"`
	Description    string     `json:"description" validate:"required"`
	Qty            int        `json:"qty" validate:"required,gt=0"`
	UnitPriceCents int        `json:"unit_price_cents" validate:"gte=0"`
}

// CreateOrderInput carries the payload for placing an order.
type CreateOrderInput struct {
	CustomerName    string           `json:"customer_name" validate:"required"`
	CustomerEmail   string           `json:"customer_email" validate:"required,email"`
	ShippingAddress string           `json:"shipping_address" validate:"required"`
	Notes           *string          `json:"notes"`
	Status          string           `json:"status"`
	Items           []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// UpdateStatusInput carries a lifecycle transition request.
type UpdateStatusInput struct {
	Status string  `json:"status" validate:"required"`
	Notes  *string `json:"notes"`
}

// ListParams filters and paginates the order list.
type ListParams struct {
	Status string
	Page   pagination.Params
}

// OrderPage is one page of orders.
type OrderPage struct {
	Orders     []models.Order
	NextCursor string
}

// LineItemResponse is the wire shape of one order line.
type LineItemResponse struct {
	ID             uuid.UUID  `json:"id"`
	SetID          *uuid.UUID `json:"set_id,omitempty"`
	Description    string     `json:"description"`
	Qty            int        `json:"qty"`
	UnitPriceCents int        `json:"unit_price_cents"`
	TotalCents     int        `json:"total_cents"`
}

// OrderResponse is the wire shape of an order.
type OrderResponse struct {
	ID              uuid.UUID          `json:"id"`
	OrderNumber     string             `json:"order_number"`
	Status          string             `json:"status"`
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	ShippingAddress string             `json:"shipping_address"`
	Notes           *string            `json:"notes,omitempty"`
	SubtotalCents   int                `json:"subtotal_cents"`
	TotalCents      int                `json:"total_cents"`
	Items           []LineItemResponse `json:"items"`
	CancelledAt     *string            `json:"cancelled_at,omitempty"`
	CreatedAt       string             `json:"created_at"`
}

// OrderPageResponse is the wire shape of a paginated order list.
type OrderPageResponse struct {
	Orders     []OrderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// NewOrderResponse maps a stored order onto its wire shape.
func NewOrderResponse(order *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          order.Status.String(),
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		ShippingAddress: order.ShippingAddress,
		Notes:           order.Notes,
		SubtotalCents:   order.SubtotalCents,
		TotalCents:      order.TotalCents,
		CreatedAt:       order.CreatedAt.UTC().Format(timeFormat),
	}
	if order.CancelledAt != nil {
		cancelled := order.CancelledAt.UTC().Format(timeFormat)
		resp.CancelledAt = &cancelled
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, LineItemResponse{
			ID:             item.ID,
			SetID:          item.SetID,
			Description:    item.Description,
			Qty:            item.Qty,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents,
		})
	}
	return resp
}

// NewOrderPageResponse maps a page of orders onto its wire shape.
func NewOrderPageResponse(page *OrderPage) OrderPageResponse {
	resp := OrderPageResponse{NextCursor: page.NextCursor, Orders: []OrderResponse{}}
	for i := range page.Orders {
		resp.Orders = append(resp.Orders, NewOrderResponse(&page.Orders[i]))
	}
	return resp
}
