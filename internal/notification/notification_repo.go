package notification

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, n *Notification) error
	CreateBatch(ctx context.Context, ns []Notification) error
	FindByRecipient(ctx context.Context, companyID, recipientID string, limit, offset int) ([]Notification, int64, error)
	MarkRead(ctx context.Context, companyID, recipientID, id string) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) CreateBatch(ctx context.Context, ns []Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ns).Error
}

func (r *repository) FindByRecipient(ctx context.Context, companyID, recipientID string, limit, offset int) ([]Notification, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("company_id = ?", companyID).
		Where("recipient_id = ?", recipientID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ns []Notification
	err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ns).Error
	return ns, total, err
}

// MarkRead flips the read flag only when the row belongs to the
// recipient; the affected count tells the caller whether it matched.
func (r *repository) MarkRead(ctx context.Context, companyID, recipientID, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("company_id = ?", companyID).
		Where("recipient_id = ?", recipientID).
		Where("id = ?", id).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
