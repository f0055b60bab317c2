package utils

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/emporio-digital/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// openTestDB connects to the database named by TEST_DATABASE_DSN. The
// transaction-level tests below need a real Postgres; without one they skip.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping database test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Coupon{}))
	return db
}

func TestDecrementStockLastUnitRace(t *testing.T) {
	db := openTestDB(t)

	product := models.Product{Name: "Caneca", Price: 10.00, Stock: 1, IsActive: true}
	require.NoError(t, db.Create(&product).Error)
	t.Cleanup(func() { db.Unscoped().Delete(&models.Product{}, product.ID) })

	tx1 := db.Begin()
	require.NoError(t, tx1.Error)
	require.NoError(t, DecrementStock(tx1, product.ID, 1))

	// The second transaction blocks on the row until the first commits, then
	// re-evaluates the stock guard and must lose.
	loser := make(chan error, 1)
	go func() {
		tx2 := db.Begin()
		if tx2.Error != nil {
			loser <- tx2.Error
			return
		}
		err := DecrementStock(tx2, product.ID, 1)
		tx2.Rollback()
		loser <- err
	}()

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, tx1.Commit().Error)

	assert.ErrorIs(t, <-loser, ErrOutOfStock)

	var final models.Product
	require.NoError(t, db.First(&final, product.ID).Error)
	assert.Equal(t, 0, final.Stock)
}

func TestRedeemCouponCapRace(t *testing.T) {
	db := openTestDB(t)

	code := fmt.Sprintf("CAP1-%d", time.Now().UnixNano())
	coupon := models.Coupon{
		Code:               code,
		DiscountPercentage: 10,
		Expiry:             time.Now().Add(24 * time.Hour),
		UsageLimit:         1,
		Active:             true,
	}
	require.NoError(t, db.Create(&coupon).Error)
	t.Cleanup(func() { db.Unscoped().Delete(&models.Coupon{}, coupon.ID) })

	tx1 := db.Begin()
	require.NoError(t, tx1.Error)
	require.NoError(t, RedeemCoupon(tx1, code))

	loser := make(chan error, 1)
	go func() {
		tx2 := db.Begin()
		if tx2.Error != nil {
			loser <- tx2.Error
			return
		}
		err := RedeemCoupon(tx2, code)
		tx2.Rollback()
		loser <- err
	}()

	time.Sleep(200 * time.Millisecond)
	require.NoError(t, tx1.Commit().Error)

	assert.ErrorIs(t, <-loser, ErrCouponExhausted)

	var final models.Coupon
	require.NoError(t, db.First(&final, coupon.ID).Error)
	assert.Equal(t, 1, final.UsedCount)
}

func TestDecrementStockSequentialExhaustion(t *testing.T) {
	db := openTestDB(t)

	product := models.Product{Name: "Camiseta", Price: 35.00, Stock: 2, IsActive: true}
	require.NoError(t, db.Create(&product).Error)
	t.Cleanup(func() { db.Unscoped().Delete(&models.Product{}, product.ID) })

	tx := db.Begin()
	require.NoError(t, tx.Error)
	assert.NoError(t, DecrementStock(tx, product.ID, 2))
	assert.ErrorIs(t, DecrementStock(tx, product.ID, 1), ErrOutOfStock)
	tx.Rollback()
}
