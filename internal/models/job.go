package models

import "time"

// Job представляет заказ, по которому ведутся сделки.
type Job struct {
	ID           string    `json:"id"`
	OutsourcerID string    `json:"outsourcerId"`
	Title        string    `json:"title"`
	Deferrable   bool      `json:"deferrable"`
	CreatedAt    time.Time `json:"createdAt"`
}
