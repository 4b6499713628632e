package cartControllers

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/NiccAngelo/my-shopify/models"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInvalidQuantity   = errors.New("quantity must be greater than 0")
	ErrInsufficientStock = errors.New("not enough stock")
)

// AddItem puts quantity units of a product into the user's cart. A second
// add of the same product merges into the existing line instead of
// creating another row. The stock guard compares available stock against
// the line's post-merge quantity, so a cart can never hold more of a
// product than the shop could currently sell. Returns the resulting line
// and whether it was newly created.
//
// Stock is not decremented here; the cart only reserves virtually until
// checkout.
func AddItem(db *gorm.DB, userID, productID uint, quantity int) (models.CartItem, bool, error) {
	var item models.CartItem
	if quantity <= 0 {
		return item, false, ErrInvalidQuantity
	}

	created := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if product.Stock < quantity {
				return fmt.Errorf("%w for %q", ErrInsufficientStock, product.Name)
			}
			item = models.CartItem{
				UserID:    userID,
				ProductID: productID,
				Quantity:  quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			created = true
		case err != nil:
			return err
		default:
			// Checked as a subtraction so a huge requested quantity cannot
			// wrap the sum negative and slip past the guard.
			if quantity > product.Stock || item.Quantity > product.Stock-quantity {
				return fmt.Errorf("%w for %q", ErrInsufficientStock, product.Name)
			}
			item.Quantity += quantity
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		item.Product = product
		return nil
	})
	if err != nil {
		return models.CartItem{}, false, err
	}
	return item, created, nil
}

// UpdateQuantity overwrites the quantity of a cart line owned by the user.
// Zero or negative quantities are rejected; callers remove the line
// instead.
func UpdateQuantity(db *gorm.DB, userID, itemID uint, quantity int) (models.CartItem, error) {
	var item models.CartItem
	if quantity <= 0 {
		return item, ErrInvalidQuantity
	}

	if err := db.Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, ErrCartItemNotFound
		}
		return item, err
	}

	item.Quantity = quantity
	if err := db.Save(&item).Error; err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

// RemoveItem deletes a cart line owned by the user.
func RemoveItem(db *gorm.DB, userID, itemID uint) error {
	result := db.Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

// Clear deletes every cart line for the user. A no-op on an empty cart.
func Clear(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}

// ListItems returns the user's cart lines joined with the current product
// snapshot. The price shown is the live catalog price; checkout re-reads
// prices inside its transaction, so a price change between viewing and
// purchase only affects the display.
func ListItems(db *gorm.DB, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}
