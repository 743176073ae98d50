package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/boscoapparel/shop/internal/domain"
)

// handleOrdersExport streams every matching order as an XLSX workbook for
// back-office bookkeeping.
func (s *Server) handleOrdersExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.requireAdmin(w, r) == nil {
		return
	}
	f := domain.OrderFilter{
		Page:   1,
		Limit:  10000,
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("search"),
	}
	orders, _, err := s.orders.List(r.Context(), f)
	if err != nil {
		failErr(w, err, "Order not found", "")
		return
	}

	wb := excelize.NewFile()
	defer wb.Close()
	const sheet = "Orders"
	wb.SetSheetName(wb.GetSheetName(0), sheet)

	headers := []string{"Order Number", "Date", "Customer", "Email", "Phone", "Payment Type", "Payment Status", "Status", "Subtotal", "Shipping", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		wb.SetCellValue(sheet, cell, h)
	}
	for rowIdx, o := range orders {
		name, email, phone := "Unknown Customer", "", ""
		if o.ShippingData != nil {
			name, email, phone = o.ShippingData.Name, o.ShippingData.Email, o.ShippingData.Phone
		}
		values := []any{
			o.OrderNumber,
			o.CreatedAt.Format("2006-01-02 15:04"),
			name,
			email,
			phone,
			string(o.PaymentType),
			string(o.PaymentStatus),
			string(o.Status),
			o.Subtotal,
			o.Shipping,
			o.Total,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			wb.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := wb.Write(w); err != nil {
		log.Error().Err(err).Msg("write orders export")
	}
}
