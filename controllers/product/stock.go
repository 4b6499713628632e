package productcontroller

import (
	"gorm.io/gorm"

	"github.com/NiccAngelo/my-shopify/models"
)

// GetStock reads the current stock counter for a product. Callers inside
// a transaction pass the transaction handle so the read respects its
// isolation.
func GetStock(db *gorm.DB, productID uint) (int, error) {
	var product models.Product
	if err := db.Select("stock").First(&product, productID).Error; err != nil {
		return 0, err
	}
	return product.Stock, nil
}

// DecrementStock atomically subtracts quantity from the product's stock,
// but only when enough stock remains. Returns whether the decrement was
// applied; false means the product is missing or stock is insufficient.
// This conditional update is the enforcement point for the stock >= 0
// invariant under concurrent checkouts.
func DecrementStock(db *gorm.DB, productID uint, quantity int) (bool, error) {
	result := db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetStock overwrites the stock counter. Admin edits only.
func SetStock(db *gorm.DB, productID uint, stock int) error {
	result := db.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", stock)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
