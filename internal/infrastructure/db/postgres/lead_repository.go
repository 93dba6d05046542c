package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/leadflow/crm-api/internal/core/domain"
	"github.com/leadflow/crm-api/internal/core/ports"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	model := leadToModel(lead)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*domain.Lead, error) {
	key, ok := parseID(id)
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	var model leadModel
	if err := r.db.WithContext(ctx).Where("id = ?", key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return leadFromModel(model), nil
}

// List returns one page of leads matching f, newest first, and the total
// number of matches.
func (r *LeadRepository) List(ctx context.Context, f ports.LeadFilter) ([]*domain.Lead, int64, error) {
	if !f.Scope.Unrestricted && f.Scope.AssignedToID == "" {
		return []*domain.Lead{}, 0, nil
	}

	q := r.db.WithContext(ctx).Model(&leadModel{})
	if !f.Scope.Unrestricted {
		q = q.Where("assigned_to_id = ?", f.Scope.AssignedToID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ? OR company ILIKE ?", pattern, pattern, pattern)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	var models []leadModel
	err := q.Order("created_at DESC").Order("id ASC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}

	out := make([]*domain.Lead, 0, len(models))
	for _, m := range models {
		out = append(out, leadFromModel(m))
	}
	return out, total, nil
}

func (r *LeadRepository) Update(ctx context.Context, lead *domain.Lead) error {
	model := leadToModel(lead)
	res := r.db.WithContext(ctx).Model(&leadModel{}).Where("id = ?", lead.ID).Select("*").Omit("id", "created_at").Updates(&model)
	if res.Error != nil {
		return fmt.Errorf("update lead: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	key, ok := parseID(id)
	if !ok {
		return domain.ErrLeadNotFound
	}
	res := r.db.WithContext(ctx).Where("id = ?", key).Delete(&leadModel{})
	if res.Error != nil {
		return fmt.Errorf("delete lead: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
