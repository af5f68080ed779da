package domain

import "time"

// OrderItem is a single line within an order. Name and Price are snapshotted
// from the product at placement time so later product edits do not rewrite
// order history.
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is a purchase placed by a user. UserID is the owner reference used
// by ownership checks.
type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	CreatedAt   time.Time   `json:"created_at"`
}

// OwnerID satisfies auth.Owned.
func (o *Order) OwnerID() int64 { return o.UserID }
