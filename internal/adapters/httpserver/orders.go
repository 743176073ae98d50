package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/boscoapparel/shop/internal/domain"
	"github.com/boscoapparel/shop/internal/usecase"
)

type orderItemPayload struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

type shippingPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type createOrderPayload struct {
	Items        []orderItemPayload `json:"items"`
	ShippingData *shippingPayload   `json:"shippingData"`
	PaymentType  string             `json:"paymentType"`
	Subtotal     float64            `json:"subtotal"`
	Shipping     float64            `json:"shipping"`
	Total        float64            `json:"total"`
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createOrder(w, r)
	case http.MethodGet:
		s.listOrders(w, r)
	default:
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderPayload
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		fail(w, http.StatusBadRequest, "Items are required")
		return
	}
	if req.ShippingData == nil {
		fail(w, http.StatusBadRequest, "Shipping data is required")
		return
	}

	cmd := usecase.PlaceOrderCommand{
		PaymentType: domain.PaymentType(req.PaymentType),
		ShippingFee: req.Shipping,
		Shipping: &usecase.ShippingInput{
			Name:    req.ShippingData.Name,
			Email:   req.ShippingData.Email,
			Phone:   req.ShippingData.Phone,
			Address: req.ShippingData.Address,
			City:    req.ShippingData.City,
			ZipCode: req.ShippingData.ZipCode,
			Country: req.ShippingData.Country,
		},
	}
	for _, it := range req.Items {
		pid, err := uuid.Parse(it.ProductID)
		if err != nil {
			fail(w, http.StatusNotFound, "Product not found with ID: "+it.ProductID)
			return
		}
		cmd.Items = append(cmd.Items, usecase.OrderLine{ProductID: pid, Qty: it.Qty})
	}

	order, err := s.orders.Place(r.Context(), cmd)
	if err != nil {
		failErr(w, err, "Order not found", "")
		return
	}
	go s.notifyOrder(order)

	ok(w, http.StatusCreated, map[string]any{
		"message": "Order created successfully",
		"data": map[string]any{
			"order":          order,
			"shippingDataId": order.ShippingDataID,
		},
	})
}

// orderRow flattens an order plus its shipping snapshot into the summary
// shape the admin tables consume.
func orderRow(o domain.Order, withPaymentStatus bool) map[string]any {
	row := map[string]any{
		"id":           o.ID,
		"orderNumber":  o.OrderNumber,
		"customerName": "Unknown Customer",
		"email":        "No Email",
		"phone":        "No Phone",
		"paymentType":  o.PaymentType,
		"amount":       o.Total,
		"status":       o.Status,
		"date":         o.CreatedAt.Format("2006-01-02"),
	}
	if withPaymentStatus {
		row["paymentStatus"] = o.PaymentStatus
	}
	if sd := o.ShippingData; sd != nil {
		row["customerName"] = sd.Name
		if sd.Email != "" {
			row["email"] = sd.Email
		}
		if sd.Phone != "" {
			row["phone"] = sd.Phone
		}
	}
	return row
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	qv := r.URL.Query()
	f := domain.OrderFilter{
		Page:   cast.ToInt(qv.Get("page")),
		Limit:  cast.ToInt(qv.Get("limit")),
		Status: qv.Get("status"),
		Search: qv.Get("search"),
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	orders, total, err := s.orders.List(r.Context(), f)
	if err != nil {
		failErr(w, err, "Order not found", "")
		return
	}
	rows := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderRow(o, true))
	}
	totalPages := (total + int64(f.Limit) - 1) / int64(f.Limit)
	ok(w, http.StatusOK, map[string]any{
		"data": rows,
		"pagination": map[string]any{
			"page":        f.Page,
			"limit":       f.Limit,
			"total":       total,
			"totalPages":  totalPages,
			"hasNextPage": int64(f.Page) < totalPages,
			"hasPrevPage": f.Page > 1,
		},
	})
}

// handleOrderByPath routes /api/orders/{orderNumber}, /{id}/status and
// /{id}/cancel. Lookups key on the human-readable number; mutations key on
// the internal id.
func (s *Server) handleOrderByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/orders/"), "/")
	parts := strings.Split(rest, "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		if r.Method != http.MethodGet {
			fail(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		s.getOrder(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "status":
		if r.Method != http.MethodPut {
			fail(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		s.updateOrderStatus(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "cancel":
		if r.Method != http.MethodPost {
			fail(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		s.cancelOrder(w, r, parts[0])
	default:
		fail(w, http.StatusNotFound, "Route not found")
	}
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request, orderNumber string) {
	order, err := s.orders.GetByNumber(r.Context(), orderNumber)
	if err != nil {
		failErr(w, err, "Order not found", "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"data": order})
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request, idStr string) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		fail(w, http.StatusNotFound, "Order not found")
		return
	}
	var req struct {
		Status        string `json:"status"`
		PaymentStatus string `json:"paymentStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	var status *domain.OrderStatus
	if req.Status != "" {
		st := domain.OrderStatus(req.Status)
		status = &st
	}
	var payStatus *domain.PaymentStatus
	if req.PaymentStatus != "" {
		ps := domain.PaymentStatus(req.PaymentStatus)
		payStatus = &ps
	}
	order, err := s.orders.UpdateStatus(r.Context(), id, status, payStatus)
	if err != nil {
		failErr(w, err, "Order not found", "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"message": "Order updated successfully", "data": order})
}

func (s *Server) cancelOrder(w http.ResponseWriter, r *http.Request, idStr string) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		fail(w, http.StatusNotFound, "Order not found")
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	order, err := s.orders.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		failErr(w, err, "Order not found", "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"message": "Order cancelled successfully", "data": order})
}

func (s *Server) handleShippingByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	idStr := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/orders/shipping/"), "/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		fail(w, http.StatusNotFound, "Shipping data not found")
		return
	}
	ship, err := s.orders.GetShipping(r.Context(), id)
	if err != nil {
		failErr(w, err, "Shipping data not found", "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"data": ship})
}
