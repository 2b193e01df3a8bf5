package models

import "time"

// IntakeForm is the onboarding questionnaire created once per paid order.
// The wizard saves partial progress, so every step field is nullable text.
type IntakeForm struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID string `gorm:"uniqueIndex;size:36;not null" json:"order_id"`
	UserID  uint   `gorm:"index;not null" json:"user_id"`

	// Step 1 - Basic info
	BusinessName string `json:"business_name"`
	Industry     string `json:"industry"`
	WebsiteURL   string `json:"website_url"`
	ContactName  string `json:"contact_person"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`

	// Step 2 - Project details
	ProjectGoals       string `json:"project_goals"`
	ProjectDescription string `json:"project_description"`
	KeyRequirements    string `json:"key_requirements" gorm:"type:text"` // JSON array
	Competitors        string `json:"competitors" gorm:"type:text"`      // JSON array

	// Step 3 - Target audience
	TargetAudience     string `json:"target_audience"`
	GeographicFocus    string `json:"geographic_focus"`
	AgeRange           string `json:"age_range"`
	CustomerPainPoints string `json:"customer_pain_points"`

	// Step 4 - Timeline and budget
	DesiredStartDate   string `json:"desired_start_date"`
	Deadline           string `json:"deadline"`
	BudgetExpectations string `json:"budget_expectations"`
	AdditionalNotes    string `json:"additional_notes"`

	CurrentStep int        `json:"current_step" gorm:"default:1"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
