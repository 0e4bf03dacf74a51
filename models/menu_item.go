package models

import "time"

// Category groups menu items on the storefront
type Category string

const (
	CategoryAppetizer  Category = "appetizer"
	CategoryMainCourse Category = "main course"
	CategoryDessert    Category = "dessert"
	CategoryBeverage   Category = "beverage"
)

// Categories lists every valid category in display order
var Categories = []Category{CategoryAppetizer, CategoryMainCourse, CategoryDessert, CategoryBeverage}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type MenuItem struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Name        string    `json:"name" gorm:"not null" bson:"name"`
	Description string    `json:"description" gorm:"not null" bson:"description"`
	Price       float64   `json:"price" gorm:"not null;check:price >= 0" bson:"price"`
	Category    Category  `json:"category" gorm:"not null;default:'main course';index" bson:"category"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	IsAvailable bool      `json:"isAvailable" gorm:"not null" bson:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}
