package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/boscoapparel/shop/internal/adapters/httpserver"
	"github.com/boscoapparel/shop/internal/adapters/repo/postgres"
	"github.com/boscoapparel/shop/internal/adapters/storage/localfs"
	"github.com/boscoapparel/shop/internal/config"
	"github.com/boscoapparel/shop/internal/domain"
	"github.com/boscoapparel/shop/internal/usecase"
)

type App struct {
	DB  *gorm.DB
	Cfg *config.Config

	CategoryUC  *usecase.CategoryUC
	ProductUC   *usecase.ProductUC
	OrderUC     *usecase.OrderUC
	DashboardUC *usecase.DashboardUC
	AuthUC      *usecase.AuthUC

	OAuthConfig *oauth2.Config
}

func NewApp(db *gorm.DB, cfg *config.Config) (*App, error) {
	catRepo := postgres.NewCategoryRepo(db)
	prodRepo := postgres.NewProductRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	shipRepo := postgres.NewShippingRepo(db)
	userRepo := postgres.NewUserRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	_ = os.MkdirAll(cfg.StorageDir, 0755)
	storage := localfs.New(cfg.StorageDir)

	var oauthCfg *oauth2.Config
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.BaseURL + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	app := &App{DB: db, Cfg: cfg, OAuthConfig: oauthCfg}
	app.CategoryUC = &usecase.CategoryUC{Categories: catRepo, Products: prodRepo, Images: storage}
	app.ProductUC = &usecase.ProductUC{Products: prodRepo, Categories: catRepo, Images: storage}
	app.OrderUC = &usecase.OrderUC{Orders: orderRepo, Products: prodRepo, Shipping: shipRepo}
	app.DashboardUC = &usecase.DashboardUC{Stats: statsRepo, Orders: orderRepo}
	app.AuthUC = &usecase.AuthUC{
		Users:         userRepo,
		AccessSecret:  []byte(cfg.JWTAccessSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		AccessTTL:     time.Duration(cfg.AccessExpiresMin) * time.Minute,
		RefreshTTL:    time.Duration(cfg.RefreshExpiresHrs) * time.Hour,
	}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Cfg, a.CategoryUC, a.ProductUC, a.OrderUC, a.DashboardUC, a.AuthUC, a.OAuthConfig)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.Category{}, &domain.Product{}, &domain.ShippingData{},
		&domain.Order{}, &domain.OrderItem{}, &domain.User{}, &postgres.Counter{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_products_status ON products(status)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_products_featured ON products(featured)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON order_items(product_id)").Error
	_ = a.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_lower ON categories (LOWER(name))").Error
	_ = a.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name_lower ON products (LOWER(name))").Error

	return a.seedAdmin()
}

// seedAdmin creates the initial admin account from env vars on an empty user
// table. Without credentials set the seed is skipped.
func (a *App) seedAdmin() error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	var count int64
	if err := a.DB.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		ID:           uuid.New(),
		Name:         "Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := a.DB.WithContext(context.Background()).Create(admin).Error; err != nil {
		return err
	}
	log.Info().Str("email", email).Msg("seeded admin user")
	return nil
}
