package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/ridewell/motorbill/internal/bill/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, bill *domain.Bill) error {
	return db.WithContext(ctx).Create(bill).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&bill).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListBillFilter) ([]*domain.Bill, error) {
	var bills []*domain.Bill
	stmt := db.WithContext(ctx).Model(&domain.Bill{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Channel != "" {
		stmt = stmt.Where("channel = ?", filter.Channel)
	}
	if filter.ModelName != "" {
		stmt = stmt.Where("model_name = ?", filter.ModelName)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Find(&bills).Error
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.BillStatus, updatedAt time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Bill{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": updatedAt,
		}).Error
}

func (r *repo) FindSuccessor(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Bill, error) {
	var bill domain.Bill
	err := db.WithContext(ctx).
		Where("original_bill_id = ?", id).
		First(&bill).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &bill, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Bill{}).Error
}

func (r *repo) NextNumber(ctx context.Context, db *gorm.DB) (int64, error) {
	var max int64
	err := db.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(number), 0) FROM bills`,
	).Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
