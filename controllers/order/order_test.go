package orderControllers

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	cartControllers "github.com/NiccAngelo/my-shopify/controllers/cart"
	"github.com/NiccAngelo/my-shopify/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:order%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func createProduct(t *testing.T, db *gorm.DB, name string, price string, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "Test",
		Stock:    stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func stockOf(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, productID).Error)
	return product.Stock
}

func TestPlaceOrder_EndToEnd(t *testing.T) {
	db := setupTestDB(t)
	product := createProduct(t, db, "Mug", "9.99", 5)

	// User builds a cart: 3 then 1 of the same product merges to one line.
	_, _, err := cartControllers.AddItem(db, 1, product.ID, 3)
	require.NoError(t, err)
	item, created, err := cartControllers.AddItem(db, 1, product.ID, 1)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 4, item.Quantity)

	order, err := PlaceOrder(db, 1, []OrderItemInput{
		{ProductID: product.ID, Quantity: 4},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.OrderRef)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("9.99")))
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("39.96")),
		"total must be price * quantity, got %s", order.TotalAmount)

	assert.Equal(t, 1, stockOf(t, db, product.ID))

	// Checkout clears the cart.
	items, err := cartControllers.ListItems(db, 1)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPlaceOrder_IgnoresClientPrices(t *testing.T) {
	db := setupTestDB(t)
	product := createProduct(t, db, "Mug", "20.00", 5)

	order, err := PlaceOrder(db, 1, []OrderItemInput{
		{ProductID: product.ID, Quantity: 2, Price: decimal.RequireFromString("0.01")},
	})
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("40.00")),
		"client-supplied price must not affect the charged total")
	assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("20.00")))
}

func TestPlaceOrder_EmptyItemList(t *testing.T) {
	db := setupTestDB(t)

	_, err := PlaceOrder(db, 1, nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	db := setupTestDB(t)

	_, err := PlaceOrder(db, 1, []OrderItemInput{{ProductID: 999, Quantity: 1}})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestPlaceOrder_AtomicRollback(t *testing.T) {
	db := setupTestDB(t)
	mug := createProduct(t, db, "Mug", "9.99", 5)
	hat := createProduct(t, db, "Hat", "14.50", 1)

	_, _, err := cartControllers.AddItem(db, 1, mug.ID, 2)
	require.NoError(t, err)

	// The last line fails its stock check, so nothing from the first line
	// may survive either.
	_, err = PlaceOrder(db, 1, []OrderItemInput{
		{ProductID: mug.ID, Quantity: 2},
		{ProductID: hat.ID, Quantity: 3},
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 5, stockOf(t, db, mug.ID))
	assert.Equal(t, 1, stockOf(t, db, hat.ID))

	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)

	// The cart survives a failed checkout.
	items, err := cartControllers.ListItems(db, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestPlaceOrder_ConcurrentLastUnit(t *testing.T) {
	db := setupTestDB(t)
	product := createProduct(t, db, "Mug", "9.99", 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = PlaceOrder(db, uint(i+1), []OrderItemInput{
				{ProductID: product.ID, Quantity: 1},
			})
		}(i)
	}
	wg.Wait()

	var successes, stockFailures int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			assert.ErrorIs(t, err, ErrInsufficientStock)
			stockFailures++
		}
	}
	assert.Equal(t, 1, successes, "exactly one checkout wins the last unit")
	assert.Equal(t, 1, stockFailures)
	assert.Equal(t, 0, stockOf(t, db, product.ID), "stock must never go negative")
}

func TestPlaceOrder_SumOfDecrementsNeverExceedsStock(t *testing.T) {
	db := setupTestDB(t)
	product := createProduct(t, db, "Mug", "9.99", 5)

	var succeeded int
	for i := 0; i < 4; i++ {
		if _, err := PlaceOrder(db, uint(i+1), []OrderItemInput{
			{ProductID: product.ID, Quantity: 2},
		}); err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrInsufficientStock)
		}
	}

	assert.Equal(t, 2, succeeded)
	assert.Equal(t, 1, stockOf(t, db, product.ID))
}

func TestListOrders(t *testing.T) {
	db := setupTestDB(t)
	product := createProduct(t, db, "Mug", "9.99", 10)

	_, err := PlaceOrder(db, 1, []OrderItemInput{{ProductID: product.ID, Quantity: 1}})
	require.NoError(t, err)
	_, err = PlaceOrder(db, 1, []OrderItemInput{{ProductID: product.ID, Quantity: 2}})
	require.NoError(t, err)
	_, err = PlaceOrder(db, 2, []OrderItemInput{{ProductID: product.ID, Quantity: 1}})
	require.NoError(t, err)

	orders, err := ListOrders(db, 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, order := range orders {
		assert.EqualValues(t, 1, order.UserID)
		require.NotEmpty(t, order.Items)
		assert.Equal(t, "Mug", order.Items[0].Product.Name)
	}
}

func TestGetOrder_ScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	product := createProduct(t, db, "Mug", "9.99", 10)

	placed, err := PlaceOrder(db, 1, []OrderItemInput{{ProductID: product.ID, Quantity: 1}})
	require.NoError(t, err)

	order, err := GetOrder(db, 1, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, order.ID)
	require.Len(t, order.Items, 1)

	_, err = GetOrder(db, 2, placed.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	product := createProduct(t, db, "Mug", "9.99", 10)

	placed, err := PlaceOrder(db, 1, []OrderItemInput{{ProductID: product.ID, Quantity: 1}})
	require.NoError(t, err)

	order, err := UpdateStatus(db, placed.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, order.Status)

	_, err = UpdateStatus(db, placed.ID, "teleported")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = UpdateStatus(db, 999, "shipped")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
