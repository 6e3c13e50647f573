package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storefrontlabs/storefront-api/pkg/config"
	"github.com/storefrontlabs/storefront-api/pkg/db"
	"github.com/storefrontlabs/storefront-api/pkg/db/models"
	"github.com/storefrontlabs/storefront-api/pkg/logger"
	"github.com/storefrontlabs/storefront-api/pkg/security"
)

const (
	seedAdminUsername = "admin"
	seedAdminPassword = "test"

	loremDescription = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do " +
		"eiusmod tempor incididunt ut labore et dolore magna aliqua."
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	admin, err := ensureAdmin(ctx, dbClient.DB(), cfg.Password)
	requireResource(ctx, logg, "admin user", err)

	products, err := seedProducts(ctx, dbClient.DB())
	requireResource(ctx, logg, "products", err)

	orderCount, err := seedOrders(ctx, dbClient.DB(), admin, products)
	requireResource(ctx, logg, "orders", err)

	ctx = logg.WithFields(ctx, map[string]any{
		"admin":    admin.Username,
		"products": len(products),
		"orders":   orderCount,
	})
	logg.Info(ctx, "seed complete")
}

// ensureAdmin returns the admin account, creating it on first run.
func ensureAdmin(ctx context.Context, conn *gorm.DB, pwCfg config.PasswordConfig) (*models.User, error) {
	var user models.User
	err := conn.WithContext(ctx).First(&user, "username = ?", seedAdminUsername).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := security.HashPassword(seedAdminPassword, pwCfg)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	user = models.User{
		Username:     seedAdminUsername,
		PasswordHash: hash,
		IsStaff:      true,
		IsActive:     true,
	}
	if err := conn.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func seedProducts(ctx context.Context, conn *gorm.DB) ([]models.Product, error) {
	products := []models.Product{
		{Name: "A Scanner Darkly", Description: loremDescription, Price: decimal.RequireFromString("12.99"), Stock: 4},
		{Name: "Coffee Machine", Description: loremDescription, Price: decimal.RequireFromString("70.99"), Stock: 6},
		{Name: "Velvet Underground & Nico", Description: loremDescription, Price: decimal.RequireFromString("15.99"), Stock: 11},
		{Name: "Enter the Wu-Tang (36 Chambers)", Description: loremDescription, Price: decimal.RequireFromString("17.99"), Stock: 2},
		{Name: "Digital Camera", Description: loremDescription, Price: decimal.RequireFromString("350.99"), Stock: 4},
		{Name: "Watch", Description: loremDescription, Price: decimal.RequireFromString("500.05"), Stock: 0},
	}

	if err := conn.WithContext(ctx).Create(&products).Error; err != nil {
		return nil, err
	}

	var all []models.Product
	if err := conn.WithContext(ctx).Order("id ASC").Find(&all).Error; err != nil {
		return nil, err
	}
	return all, nil
}

// seedOrders creates three sample orders of two random products each.
func seedOrders(ctx context.Context, conn *gorm.DB, user *models.User, products []models.Product) (int, error) {
	if len(products) < 2 {
		return 0, fmt.Errorf("need at least two products to build sample orders")
	}

	const orderCount = 3
	for i := 0; i < orderCount; i++ {
		order := models.Order{
			ID:     uuid.New(),
			UserID: user.ID,
		}

		picks := rand.Perm(len(products))[:2]
		for _, idx := range picks {
			order.Items = append(order.Items, models.OrderItem{
				ProductID: products[idx].ID,
				Quantity:  rand.Intn(3) + 1,
			})
		}

		if err := conn.WithContext(ctx).Create(&order).Error; err != nil {
			return 0, err
		}
	}
	return orderCount, nil
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
