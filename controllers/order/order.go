package orderControllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	productcontroller "github.com/NiccAngelo/my-shopify/controllers/product"
	"github.com/NiccAngelo/my-shopify/models"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrOrderNotFound     = errors.New("order not found")
)

// OrderItemInput is one requested line of a checkout. Price is accepted
// for wire compatibility with older clients but ignored: the charged
// price is always re-read from the catalog inside the transaction.
type OrderItemInput struct {
	ProductID uint            `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	Price     decimal.Decimal `json:"price"`
}

// PlaceOrder atomically converts the submitted item list into a permanent
// Order with snapshotted prices, decrements inventory, and clears the
// user's cart. Everything runs in one database transaction: if any line
// fails, no order row, no order items and no stock change survive.
//
// Stock safety across concurrent checkouts comes from the conditional
// decrement in DecrementStock: each line's decrement only applies while
// stock covers the quantity, and a refused decrement aborts the whole
// transaction with ErrInsufficientStock.
func PlaceOrder(db *gorm.DB, userID uint, items []OrderItemInput) (models.Order, error) {
	var order models.Order
	if len(items) == 0 {
		return order, ErrEmptyOrder
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero
		lines := make([]models.OrderItem, 0, len(items))

		for _, item := range items {
			var product models.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: id %d", ErrProductNotFound, item.ProductID)
				}
				return err
			}

			applied, err := productcontroller.DecrementStock(tx, product.ID, item.Quantity)
			if err != nil {
				return err
			}
			if !applied {
				return fmt.Errorf("%w for %q", ErrInsufficientStock, product.Name)
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			lines = append(lines, models.OrderItem{
				ProductID: product.ID,
				Quantity:  item.Quantity,
				Price:     product.Price,
			})
		}

		order = models.Order{
			UserID:      userID,
			OrderRef:    newOrderRef(),
			Items:       lines,
			TotalAmount: total,
			Status:      models.OrderStatusPending,
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Bulk clear, not scoped to the purchased items: the cart is the
		// staging area for exactly one checkout.
		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return models.Order{}, err
	}
	return order, nil
}

// ListOrders returns the user's orders with their items, newest first.
func ListOrders(db *gorm.DB, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := db.Where("user_id = ?", userID).
		Preload("Items").
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// GetOrder returns one of the user's orders with its items.
func GetOrder(db *gorm.DB, userID, orderID uint) (models.Order, error) {
	var order models.Order
	err := db.Where("id = ? AND user_id = ?", orderID, userID).
		Preload("Items").
		Preload("Items.Product").
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return order, ErrOrderNotFound
	}
	return order, err
}

// UpdateStatus moves an order through its lifecycle. The order itself is
// immutable; status is the only mutable column.
func UpdateStatus(db *gorm.DB, orderID uint, status string) (models.Order, error) {
	newStatus, err := mapOrderStatus(status)
	if err != nil {
		return models.Order{}, err
	}

	result := db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", newStatus)
	if result.Error != nil {
		return models.Order{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Order{}, ErrOrderNotFound
	}

	var order models.Order
	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch models.OrderStatus(status) {
	case models.OrderStatusPending,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled:
		return models.OrderStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}

func newOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}
