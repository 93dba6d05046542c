package postgres

import (
	"time"

	"github.com/leadflow/crm-api/internal/core/domain"
)

type userModel struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Name         string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (userModel) TableName() string { return "users" }

type leadModel struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"not null"`
	Phone        string
	Company      string
	Status       string `gorm:"index;not null"`
	Source       string
	Notes        string
	AssignedToID *string   `gorm:"type:uuid;index"`
	CreatedAt    time.Time `gorm:"index;not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (leadModel) TableName() string { return "leads" }

type activityModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	LeadID      string `gorm:"type:uuid;index;not null"`
	UserID      string `gorm:"type:uuid;not null"`
	Type        string `gorm:"not null"`
	Title       string `gorm:"not null"`
	Description string
	DueDate     *time.Time
	Completed   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"index;not null"`
}

func (activityModel) TableName() string { return "activities" }

func userFromModel(m userModel) (*domain.User, error) {
	role, err := domain.ParseRole(m.Role)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         role,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}, nil
}

func leadToModel(l *domain.Lead) leadModel {
	m := leadModel{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Company:   l.Company,
		Status:    string(l.Status),
		Source:    l.Source,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt.UTC(),
		UpdatedAt: l.UpdatedAt.UTC(),
	}
	if l.AssignedToID != "" {
		assignee := l.AssignedToID
		m.AssignedToID = &assignee
	}
	return m
}

func leadFromModel(m leadModel) *domain.Lead {
	l := &domain.Lead{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Company:   m.Company,
		Status:    domain.LeadStatus(m.Status),
		Source:    m.Source,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	if m.AssignedToID != nil {
		l.AssignedToID = *m.AssignedToID
	}
	return l
}

func activityToModel(a *domain.Activity) activityModel {
	return activityModel{
		ID:          a.ID,
		LeadID:      a.LeadID,
		UserID:      a.UserID,
		Type:        string(a.Type),
		Title:       a.Title,
		Description: a.Description,
		DueDate:     a.DueDate,
		Completed:   a.Completed,
		CreatedAt:   a.CreatedAt.UTC(),
	}
}

func activityFromModel(m activityModel) *domain.Activity {
	return &domain.Activity{
		ID:          m.ID,
		LeadID:      m.LeadID,
		UserID:      m.UserID,
		Type:        domain.ActivityType(m.Type),
		Title:       m.Title,
		Description: m.Description,
		DueDate:     m.DueDate,
		Completed:   m.Completed,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}
