package httpserver

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/boscoapparel/shop/internal/config"
	"github.com/boscoapparel/shop/internal/domain"
	"github.com/boscoapparel/shop/internal/usecase"
)

type Server struct {
	mux        *http.ServeMux
	cfg        *config.Config
	categories *usecase.CategoryUC
	products   *usecase.ProductUC
	orders     *usecase.OrderUC
	dashboard  *usecase.DashboardUC
	auth       *usecase.AuthUC
	oauthCfg   *oauth2.Config
}

func New(cfg *config.Config, cats *usecase.CategoryUC, prods *usecase.ProductUC, ords *usecase.OrderUC, dash *usecase.DashboardUC, auth *usecase.AuthUC, oauthCfg *oauth2.Config) http.Handler {
	s := &Server{
		mux:        http.NewServeMux(),
		cfg:        cfg,
		categories: cats,
		products:   prods,
		orders:     ords,
		dashboard:  dash,
		auth:       auth,
		oauthCfg:   oauthCfg,
	}
	s.routes()
	return Chain(s.mux,
		CORS(cfg.CORSOrigins),
		RateLimit(120),
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleHealth)
	s.mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.cfg.StorageDir))))

	s.mux.HandleFunc("/api/auth/register", s.handleRegister)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/auth/refresh-token", s.handleRefreshToken)
	s.mux.HandleFunc("/api/auth/logout", s.handleLogout)
	s.mux.HandleFunc("/api/auth/profile", s.handleProfile)
	s.mux.HandleFunc("/api/auth/all", s.handleListUsers)
	s.mux.HandleFunc("/api/auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/api/auth/google/callback", s.handleGoogleCallback)
	s.mux.HandleFunc("/api/auth/", s.handleDeleteUser)

	s.mux.HandleFunc("/api/categories", s.handleCategories)
	s.mux.HandleFunc("/api/categories/", s.handleCategoryByID)

	s.mux.HandleFunc("/api/products", s.handleProducts)
	s.mux.HandleFunc("/api/products/new-arrivals", s.handleNewArrivals)
	s.mux.HandleFunc("/api/products/", s.handleProductByID)

	s.mux.HandleFunc("/api/orders", s.handleOrders)
	s.mux.HandleFunc("/api/orders/export", s.handleOrdersExport)
	s.mux.HandleFunc("/api/orders/shipping/", s.handleShippingByID)
	s.mux.HandleFunc("/api/orders/", s.handleOrderByPath)

	s.mux.HandleFunc("/api/dashboard/sales-stats", s.handleSalesStats)
	s.mux.HandleFunc("/api/dashboard/graph-stats", s.handleGraphStats)
	s.mux.HandleFunc("/api/dashboard/recent-orders", s.handleRecentOrders)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		fail(w, http.StatusNotFound, "Route not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Server is running!"})
}

type ctxKeyUser struct{}

// requireAuth validates the bearer token and puts the user on the context.
// Returns nil after writing the 401 when the token is missing or bad.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) *domain.User {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		fail(w, http.StatusUnauthorized, "No token provided, authorization denied")
		return nil
	}
	token := strings.TrimSpace(header[7:])
	u, err := s.auth.VerifyAccess(r.Context(), token)
	if err != nil {
		fail(w, http.StatusUnauthorized, "Token is not valid")
		return nil
	}
	*r = *r.WithContext(context.WithValue(r.Context(), ctxKeyUser{}, u))
	return u
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) *domain.User {
	u := s.requireAuth(w, r)
	if u == nil {
		return nil
	}
	if u.Role != domain.RoleAdmin {
		fail(w, http.StatusForbidden, "Access denied. Admin privileges required.")
		return nil
	}
	return u
}
