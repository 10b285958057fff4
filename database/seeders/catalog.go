package seeders

import (
	"github.com/shashiranjanraj/nepkart/app/models"
	"github.com/shashiranjanraj/nepkart/app/repositories"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	Register("catalog", SeedCatalog)
}

const placeholderImage = "/placeholder-product.svg"

func product(sku, name, category, price string, stock, threshold int, weight, origin, description string) models.Product {
	return models.Product{
		SKU:               sku,
		Name:              name,
		Category:          category,
		Price:             decimal.RequireFromString(price),
		Stock:             stock,
		LowStockThreshold: threshold,
		Weight:            decimal.RequireFromString(weight),
		Origin:            origin,
		Description:       description,
		ImageURL:          placeholderImage,
	}
}

// StarterCatalog is the product list a fresh shop opens with.
func StarterCatalog() []models.Product {
	return []models.Product{
		product("NEP-FOOD-001", "Wai Wai Noodles", "Food", "2.99", 150, 20, "0.10", "Kathmandu, Nepal",
			"Authentic Nepali instant noodles loved by millions."),
		product("NEP-FOOD-002", "Churpi", "Food", "8.99", 45, 10, "0.20", "Himalayan Region, Nepal",
			"Traditional hard cheese from the Himalayas."),
		product("NEP-FOOD-003", "Gundruk", "Food", "6.99", 0, 15, "0.30", "Nepal",
			"Fermented leafy vegetable, a staple in Nepali cuisine."),
		product("NEP-FOOD-004", "Momo Masala", "Food", "4.99", 30, 10, "0.15", "Kathmandu, Nepal",
			"Spice mix for authentic momos."),
		product("NEP-CLOTH-001", "Dhaka Topi", "Clothing", "24.99", 20, 5, "0.10", "Nepal",
			"Traditional Nepali cap, handwoven with intricate patterns."),
		product("NEP-DECOR-001", "Copper Jug", "Decor", "45.99", 12, 3, "2.50", "Patan, Nepal",
			"Handcrafted copper water jug."),
		product("NEP-DECOR-002", "Prayer Wheel", "Decor", "35.99", 8, 2, "1.20", "Tibet/Nepal",
			"Traditional Tibetan prayer wheel. Handcrafted with intricate details."),
		product("NEP-FOOD-005", "Rice Bag (5kg)", "Food", "12.99", 25, 5, "5.00", "Terai, Nepal",
			"Premium Basmati rice from the Terai region."),
		product("NEP-DECOR-003", "Brass Panas Lamps", "Decor", "129.99", 15, 3, "2.80", "Patan, Nepal",
			"Handcrafted brass panas lamps. Traditional Nepali design with intricate patterns. Perfect for home decoration."),
		product("NEP-DECOR-004", "3-Set Moon Singing Bowl", "Decor", "59.99", 20, 5, "1.50", "Tibet/Nepal",
			"Set of three handcrafted Tibetan singing bowls. Each bowl produces a unique harmonic sound. Used for meditation and decoration."),
		product("NEP-DECOR-005", "Tibetan Rug", "Decor", "134.99", 10, 2, "3.50", "Tibet/Nepal",
			"Authentic Tibetan handwoven rug. Beautiful traditional patterns and colors. Adds warmth and cultural elegance to any room."),
		product("NEP-DECOR-006", "Antique Peacock Window", "Decor", "179.99", 8, 2, "4.20", "Kathmandu, Nepal",
			"Vintage-style peacock window frame. Intricate woodwork featuring traditional Nepali peacock motifs. A stunning decorative piece."),
	}
}

// SeedCatalog inserts StarterCatalog when the products table is empty.
func SeedCatalog(db *gorm.DB) error {
	n, err := repositories.NewProductRepository(db).Count()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	products := StarterCatalog()
	return db.Create(&products).Error
}
