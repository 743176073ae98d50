package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/boscoapparel/shop/internal/domain"
)

type OrderUC struct {
	Orders   domain.OrderRepo
	Products domain.ProductRepo
	Shipping domain.ShippingRepo
}

type OrderLine struct {
	ProductID uuid.UUID
	Qty       int
}

type ShippingInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	City    string
	ZipCode string
	Country string
}

// PlaceOrderCommand is the typed form of a checkout request. Totals from the
// client are ignored; the server recomputes them from catalog prices.
type PlaceOrderCommand struct {
	Items       []OrderLine
	Shipping    *ShippingInput
	PaymentType domain.PaymentType
	// ShippingFee comes from the client; zero falls back to the flat default.
	ShippingFee float64
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Place validates every line item against live inventory before any write,
// then commits shipping record, stock decrements and order in one
// transaction. A failure anywhere leaves all stock untouched.
func (uc *OrderUC) Place(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	if len(cmd.Items) == 0 {
		return nil, domain.ValidationError("Items are required")
	}
	if cmd.Shipping == nil {
		return nil, domain.ValidationError("Shipping data is required")
	}
	ship, err := buildShipping(cmd.Shipping)
	if err != nil {
		return nil, err
	}
	if cmd.PaymentType != domain.PaymentCOD && cmd.PaymentType != domain.PaymentBank {
		return nil, domain.ValidationError("Invalid payment type")
	}

	subtotal := 0.0
	items := make([]domain.OrderItem, 0, len(cmd.Items))
	for _, line := range cmd.Items {
		if line.Qty < 1 {
			return nil, domain.ValidationError("Item quantity must be at least 1")
		}
		p, err := uc.Products.FindByID(ctx, line.ProductID)
		if err != nil {
			if err == domain.ErrNotFound {
				return nil, domain.ErrProductMissing{ProductID: line.ProductID.String()}
			}
			return nil, err
		}
		if p.Inventory.Quantity < line.Qty {
			return nil, domain.ErrInsufficientStock{ProductName: p.Name}
		}
		subtotal += p.SalePrice() * float64(line.Qty)
		items = append(items, domain.OrderItem{ProductID: p.ID, Qty: line.Qty})
	}

	shippingFee := cmd.ShippingFee
	if shippingFee <= 0 {
		shippingFee = domain.DefaultShipping
	}
	subtotal = round2(subtotal)

	o := &domain.Order{
		ID:            uuid.New(),
		Items:         items,
		PaymentType:   cmd.PaymentType,
		PaymentStatus: domain.PaymentPending,
		Status:        domain.OrderPending,
		Subtotal:      subtotal,
		Shipping:      shippingFee,
		Total:         round2(subtotal + shippingFee),
	}
	if err := uc.Orders.Place(ctx, o, ship); err != nil {
		return nil, err
	}
	o.ShippingData = ship
	return o, nil
}

func buildShipping(in *ShippingInput) (*domain.ShippingData, error) {
	s := &domain.ShippingData{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
		City:    strings.TrimSpace(in.City),
		ZipCode: strings.TrimSpace(in.ZipCode),
		Country: strings.TrimSpace(in.Country),
	}
	switch {
	case s.Name == "":
		return nil, domain.ValidationError("Shipping name is required")
	case s.Phone == "":
		return nil, domain.ValidationError("Shipping phone is required")
	case s.Address == "":
		return nil, domain.ValidationError("Shipping address is required")
	case s.City == "":
		return nil, domain.ValidationError("Shipping city is required")
	case s.Country == "":
		return nil, domain.ValidationError("Shipping country is required")
	}
	return s, nil
}

// GetByNumber looks an order up by its human-readable number and returns it
// with products and shipping data populated.
func (uc *OrderUC) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return uc.Orders.FindByNumber(ctx, orderNumber)
}

func (uc *OrderUC) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int64, error) {
	return uc.Orders.List(ctx, f)
}

// UpdateStatus applies a partial admin update. Fulfilment status changes go
// through the transition table; payment status only has to stay inside its
// enum.
func (uc *OrderUC) UpdateStatus(ctx context.Context, id uuid.UUID, status *domain.OrderStatus, payStatus *domain.PaymentStatus) (*domain.Order, error) {
	o, err := uc.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if status != nil {
		if !domain.ValidOrderStatus(*status) {
			return nil, domain.ValidationError("Invalid order status")
		}
		if *status == domain.OrderCancelled {
			// cancellation has its own endpoint; it restocks
			return nil, domain.ValidationError("Use the cancel endpoint to cancel orders")
		}
		if err := o.Transition(*status); err != nil {
			return nil, err
		}
	}
	if payStatus != nil {
		switch *payStatus {
		case domain.PaymentPending, domain.PaymentPaid, domain.PaymentFailed:
			o.PaymentStatus = *payStatus
		default:
			return nil, domain.ValidationError("Invalid payment status")
		}
	}
	if err := uc.Orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Cancel rejects delivered orders, then marks the order cancelled and puts
// every line item's quantity back into inventory.
func (uc *OrderUC) Cancel(ctx context.Context, id uuid.UUID, reason string) (*domain.Order, error) {
	o, err := uc.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == domain.OrderCancelled {
		return o, nil
	}
	if err := o.Cancel(reason, time.Now()); err != nil {
		return nil, err
	}
	if err := uc.Orders.SaveWithRestock(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (uc *OrderUC) GetShipping(ctx context.Context, id uuid.UUID) (*domain.ShippingData, error) {
	return uc.Shipping.FindByID(ctx, id)
}
