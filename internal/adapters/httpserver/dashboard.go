package httpserver

import (
	"net/http"

	"github.com/spf13/cast"
)

func (s *Server) handleSalesStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.requireAdmin(w, r) == nil {
		return
	}
	stats, err := s.dashboard.SalesStats(r.Context())
	if err != nil {
		failErr(w, err, "Stats not found", "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"data": stats})
}

func (s *Server) handleGraphStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.requireAdmin(w, r) == nil {
		return
	}
	stats, err := s.dashboard.GraphStats(r.Context())
	if err != nil {
		failErr(w, err, "Stats not found", "")
		return
	}
	ok(w, http.StatusOK, map[string]any{"data": stats})
}

func (s *Server) handleRecentOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		fail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if s.requireAdmin(w, r) == nil {
		return
	}
	limit := cast.ToInt(r.URL.Query().Get("limit"))
	orders, err := s.dashboard.RecentOrders(r.Context(), limit)
	if err != nil {
		failErr(w, err, "Order not found", "")
		return
	}
	rows := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderRow(o, false))
	}
	ok(w, http.StatusOK, map[string]any{"data": rows})
}
