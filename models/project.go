package models

import (
	"time"

	"gorm.io/gorm"
)

// Project status constants
const (
	ProjectStatusNotStarted = "not_started"
	ProjectStatusDiscovery  = "discovery"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusReview     = "review"
	ProjectStatusRevisions  = "revisions"
	ProjectStatusCompleted  = "completed"
	ProjectStatusOnHold     = "on_hold"
	ProjectStatusCancelled  = "cancelled"
)

// ProjectUpdate types
const (
	UpdateTypeMilestone       = "milestone"
	UpdateTypeStatusChange    = "status_change"
	UpdateTypeGeneral         = "general"
	UpdateTypeRevisionRequest = "revision_request"
)

// Project is the delivery engagement provisioned after a paid order's intake
// form is completed. One project per order.
type Project struct {
	gorm.Model
	OrderID                 string          `gorm:"uniqueIndex;size:36;not null" json:"order_id"`
	UserID                  uint            `gorm:"index;not null" json:"user_id"`
	ProjectName             string          `json:"project_name"`
	Status                  string          `json:"status" gorm:"default:'not_started'"`
	ProgressPercent         int             `json:"progress_percentage" gorm:"default:0"`
	StartedAt               *time.Time      `json:"started_at,omitempty"`
	EstimatedCompletionDate *time.Time      `json:"estimated_completion_date,omitempty"`
	CompletedAt             *time.Time      `json:"completed_at,omitempty"`
	Description             string          `json:"description"`
	Deliverables            string          `json:"deliverables" gorm:"type:text"` // JSON array
	Milestones              string          `json:"milestones" gorm:"type:text"`   // JSON array
	Notes                   string          `json:"notes"`
	Updates                 []ProjectUpdate `json:"updates,omitempty" gorm:"foreignKey:ProjectID"`
}

// ProjectUpdate is one entry in a project's activity feed.
type ProjectUpdate struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProjectID      uint      `gorm:"index;not null" json:"project_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	UpdateType     string    `json:"update_type"`
	CreatedByAdmin bool      `json:"created_by_admin"`
	CreatedAt      time.Time `json:"created_at"`
}
