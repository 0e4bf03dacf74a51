package models

import "time"

// OrderStatus represents all possible states of an order
type OrderStatus string

const (
	StatusPlaced     OrderStatus = "placed"
	StatusInProgress OrderStatus = "in-progress"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every known status
var OrderStatuses = []OrderStatus{StatusPlaced, StatusInProgress, StatusDelivered, StatusCancelled}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

type Order struct {
	ID              string               `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	UserID          string               `json:"user" gorm:"not null;index;size:36" bson:"user"`
	User            *User                `json:"owner,omitempty" gorm:"foreignKey:UserID" bson:"-"`
	Items           []OrderItem          `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" bson:"items"`
	TotalAmount     float64              `json:"totalAmount" gorm:"not null" bson:"totalAmount"`
	DeliveryAddress string               `json:"deliveryAddress" gorm:"not null" bson:"deliveryAddress"`
	PhoneNumber     string               `json:"phoneNumber" gorm:"not null" bson:"phoneNumber"`
	Status          OrderStatus          `json:"status" gorm:"not null;default:'placed';index" bson:"status"`
	StatusHistory   []OrderStatusHistory `json:"statusHistory,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" bson:"statusHistory"`
	CreatedAt       time.Time            `json:"createdAt" gorm:"index" bson:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// OrderItem is a line-item snapshot. Price and Name are captured when the
// order is placed and never follow later catalog edits.
type OrderItem struct {
	ID         uint      `json:"-" gorm:"primaryKey" bson:"-"`
	OrderID    string    `json:"-" gorm:"not null;index;size:36" bson:"-"`
	MenuItemID string    `json:"menuItem" gorm:"not null;size:36" bson:"menuItem"`
	MenuItem   *MenuItem `json:"menuItemDetails,omitempty" gorm:"foreignKey:MenuItemID" bson:"-"`
	Name       string    `json:"name" bson:"name"`
	Quantity   int       `json:"quantity" gorm:"not null" bson:"quantity"`
	Price      float64   `json:"price" gorm:"not null" bson:"price"`
}

// LineTotal is the snapshot price multiplied by quantity
func (i OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// OrderStatusHistory is the audit trail of status changes
type OrderStatusHistory struct {
	ID         uint        `json:"-" gorm:"primaryKey" bson:"-"`
	OrderID    string      `json:"-" gorm:"not null;index;size:36" bson:"-"`
	FromStatus OrderStatus `json:"fromStatus,omitempty" bson:"fromStatus,omitempty"`
	ToStatus   OrderStatus `json:"toStatus" gorm:"not null" bson:"toStatus"`
	ChangedBy  string      `json:"changedBy" bson:"changedBy"` // user ID who triggered the transition
	Note       string      `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt  time.Time   `json:"createdAt" bson:"createdAt"`
}
