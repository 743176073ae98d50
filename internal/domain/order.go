package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderDispatched OrderStatus = "dispatched"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentType string

const (
	PaymentCOD  PaymentType = "cod"
	PaymentBank PaymentType = "bank"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

const DefaultShipping = 499

type Order struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber    string        `gorm:"size:20;uniqueIndex" json:"orderNumber"`
	Items          []OrderItem   `gorm:"foreignKey:OrderID" json:"items"`
	ShippingDataID uuid.UUID     `gorm:"type:uuid;not null" json:"-"`
	ShippingData   *ShippingData `gorm:"foreignKey:ShippingDataID" json:"shippingData,omitempty"`
	PaymentType    PaymentType   `gorm:"type:varchar(10);not null;index" json:"paymentType"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(10);default:'pending'" json:"paymentStatus"`
	Status         OrderStatus   `gorm:"type:varchar(15);default:'pending';index" json:"status"`
	Subtotal       float64       `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Shipping       float64       `gorm:"type:decimal(12,2);not null;default:499" json:"shipping"`
	Total          float64       `gorm:"type:decimal(12,2);not null" json:"total"`
	CancelReason   string        `gorm:"size:255" json:"cancelReason,omitempty"`
	CancelledAt    *time.Time    `json:"cancelledAt,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"-"`
	Qty       int       `gorm:"not null" json:"qty"`
}

// MarshalJSON renders productId the way the admin UI expects: the bare id, or
// the populated product document when it has been preloaded.
func (it OrderItem) MarshalJSON() ([]byte, error) {
	out := map[string]any{"id": it.ID, "qty": it.Qty}
	if it.Product != nil {
		out["productId"] = it.Product
	} else {
		out["productId"] = it.ProductID
	}
	return json.Marshal(out)
}

// statusRank orders the fulfilment chain. Transitions may only move forward;
// cancelled is reachable from anything short of delivered.
var statusRank = map[OrderStatus]int{
	OrderPending:    0,
	OrderConfirmed:  1,
	OrderProcessing: 2,
	OrderDispatched: 3,
	OrderDelivered:  4,
}

func ValidOrderStatus(s OrderStatus) bool {
	if s == OrderCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether the fulfilment status may change from one
// state to another. Delivered and cancelled are terminal.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	if from == OrderCancelled || from == OrderDelivered {
		return false
	}
	if to == OrderCancelled {
		return true
	}
	fr, ok := statusRank[from]
	if !ok {
		return false
	}
	tr, ok := statusRank[to]
	if !ok {
		return false
	}
	return tr > fr
}

// Transition applies a validated status change.
func (o *Order) Transition(to OrderStatus) error {
	if !CanTransition(o.Status, to) {
		return ErrInvalidTransition{From: o.Status, To: to}
	}
	o.Status = to
	return nil
}

// Cancel marks the order cancelled. Delivered orders cannot be cancelled.
func (o *Order) Cancel(reason string, at time.Time) error {
	if o.Status == OrderDelivered {
		return ErrOrderDelivered
	}
	if reason == "" {
		reason = "Cancelled by user"
	}
	o.Status = OrderCancelled
	o.CancelReason = reason
	o.CancelledAt = &at
	return nil
}
