package asset

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("asset not found")

type Asset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by"`
	IsDeleted   bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category is free-form; the UI suggests stock/gold/crypto/other but the
// API accepts anything non-empty.
type CreateAssetRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=120"`
	Category    string  `json:"category" binding:"required,min=1,max=60"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

type UpdateAssetRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=120"`
	Category    string  `json:"category" binding:"required,min=1,max=60"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}
