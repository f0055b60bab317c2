package controllers

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/emporio-digital/storefront/models"
	"github.com/emporio-digital/storefront/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping database test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderHistory{},
		&models.Coupon{},
	))
	return db
}

func checkoutFixtures(t *testing.T, db *gorm.DB, stock int) (models.User, models.Product) {
	t.Helper()

	suffix := time.Now().UnixNano()
	user := models.User{
		Username: fmt.Sprintf("cliente-%d", suffix),
		Email:    fmt.Sprintf("cliente-%d@example.com", suffix),
	}
	require.NoError(t, db.Create(&user).Error)

	product := models.Product{Name: "Caneca", Price: 10.00, Stock: stock, IsActive: true}
	require.NoError(t, db.Create(&product).Error)

	t.Cleanup(func() {
		db.Unscoped().Where("user_id = ?", user.ID).Delete(&models.OrderHistory{})
		db.Unscoped().Where("product_id = ?", product.ID).Delete(&models.OrderItem{})
		db.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Order{})
		db.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Address{})
		db.Unscoped().Delete(&models.Product{}, product.ID)
		db.Unscoped().Delete(&models.User{}, user.ID)
	})
	return user, product
}

func oneOffAddress(userID uint) models.Address {
	return models.Address{
		UserID:     userID,
		Line1:      "Av. Paulista 1000",
		City:       "Sao Paulo",
		State:      "SP",
		Country:    "BR",
		PostalCode: "01310-100",
	}
}

func TestBuildOrderPersistsOrderAndAddress(t *testing.T) {
	db := openCheckoutTestDB(t)
	user, product := checkoutFixtures(t, db, 5)

	cartItems := []models.CartItem{{UserID: user.ID, ProductID: product.ID, Quantity: 2}}
	shipping := utils.ShippingOption{Name: "PAC", Price: 5.00, DeliveryDays: 8}

	tx := db.Begin()
	require.NoError(t, tx.Error)
	order, err := buildOrder(tx, user, cartItems, "", shipping, oneOffAddress(user.ID))
	require.NoError(t, err)
	require.NoError(t, tx.Commit().Error)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 25.00, order.TotalAmount)

	var stored models.Product
	require.NoError(t, db.First(&stored, product.ID).Error)
	assert.Equal(t, 3, stored.Stock)

	var addresses int64
	require.NoError(t, db.Model(&models.Address{}).Where("user_id = ?", user.ID).Count(&addresses).Error)
	assert.Equal(t, int64(1), addresses)
}

func TestBuildOrderRollbackLeavesNoStrayAddress(t *testing.T) {
	db := openCheckoutTestDB(t)
	user, product := checkoutFixtures(t, db, 5)

	cartItems := []models.CartItem{{UserID: user.ID, ProductID: product.ID, Quantity: 1}}
	shipping := utils.ShippingOption{Name: "PAC", Price: 5.00, DeliveryDays: 8}

	// An unknown coupon fails the pipeline after the one-off address has been
	// written inside the transaction; the rollback must take it back out.
	tx := db.Begin()
	require.NoError(t, tx.Error)
	_, err := buildOrder(tx, user, cartItems, "NAOEXISTE", shipping, oneOffAddress(user.ID))
	assert.ErrorIs(t, err, utils.ErrCouponNotFound)
	tx.Rollback()

	var addresses int64
	require.NoError(t, db.Model(&models.Address{}).Where("user_id = ?", user.ID).Count(&addresses).Error)
	assert.Equal(t, int64(0), addresses)

	var stored models.Product
	require.NoError(t, db.First(&stored, product.ID).Error)
	assert.Equal(t, 5, stored.Stock)
}
