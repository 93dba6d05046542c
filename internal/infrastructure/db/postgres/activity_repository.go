package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/leadflow/crm-api/internal/core/domain"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	model := activityToModel(a)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepository) ListByLead(ctx context.Context, leadID string) ([]*domain.Activity, error) {
	key, ok := parseID(leadID)
	if !ok {
		return []*domain.Activity{}, nil
	}
	var models []activityModel
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", key).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	out := make([]*domain.Activity, 0, len(models))
	for _, m := range models {
		out = append(out, activityFromModel(m))
	}
	return out, nil
}

func (r *ActivityRepository) DeleteByLead(ctx context.Context, leadID string) error {
	key, ok := parseID(leadID)
	if !ok {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("lead_id = ?", key).Delete(&activityModel{}).Error; err != nil {
		return fmt.Errorf("delete activities: %w", err)
	}
	return nil
}
