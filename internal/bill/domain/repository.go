package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListBillFilter struct {
	Status    BillStatus
	Channel   string
	ModelName string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, bill *Bill) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Bill, error)
	List(ctx context.Context, db *gorm.DB, filter ListBillFilter) ([]*Bill, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status BillStatus, updatedAt time.Time) error
	// FindSuccessor returns the bill whose OriginalBillID points at id.
	FindSuccessor(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Bill, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	// NextNumber reserves the next display sequence. Single-writer-per-bill
	// discipline is assumed by the callers.
	NextNumber(ctx context.Context, db *gorm.DB) (int64, error)
}
