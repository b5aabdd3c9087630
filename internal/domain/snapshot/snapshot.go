package snapshot

import (
	"errors"
	"time"

	"github.com/aperdana/networth/internal/date"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("snapshot not found")
	ErrDuplicateDate = errors.New("duplicate snapshot date for this asset")
	ErrAssetNotFound = errors.New("asset not found for snapshot")
	ErrFutureDate    = errors.New("snapshot_date cannot be in the future")
	ErrNegativeValue = errors.New("value must be a non-negative number")
)

type Snapshot struct {
	ID           string          `json:"id"`
	AssetID      string          `json:"asset_id"`
	SnapshotDate date.Date       `json:"snapshot_date"`
	Value        decimal.Decimal `json:"value"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

type CreateSnapshotRequest struct {
	AssetID      string           `json:"asset_id" binding:"required"`
	SnapshotDate date.Date        `json:"snapshot_date" binding:"required"`
	Value        *decimal.Decimal `json:"value" binding:"required"`
}

type UpdateSnapshotRequest struct {
	Value *decimal.Decimal `json:"value" binding:"required"`
}

// ValidateValue enforces the value invariant shared by create and update.
func ValidateValue(v *decimal.Decimal) error {
	if v == nil || v.IsNegative() {
		return ErrNegativeValue
	}

	return nil
}
