package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// IntakeUpdateRequest carries a partial wizard save. Pointer fields
// distinguish "left untouched" from "cleared".
type IntakeUpdateRequest struct {
	BusinessName *string `json:"business_name"`
	Industry     *string `json:"industry"`
	WebsiteURL   *string `json:"website_url"`
	ContactName  *string `json:"contact_person"`
	ContactEmail *string `json:"contact_email"`
	ContactPhone *string `json:"contact_phone"`

	ProjectGoals       *string `json:"project_goals"`
	ProjectDescription *string `json:"project_description"`
	KeyRequirements    *string `json:"key_requirements"`
	Competitors        *string `json:"competitors"`

	TargetAudience     *string `json:"target_audience"`
	GeographicFocus    *string `json:"geographic_focus"`
	AgeRange           *string `json:"age_range"`
	CustomerPainPoints *string `json:"customer_pain_points"`

	DesiredStartDate   *string `json:"desired_start_date"`
	Deadline           *string `json:"deadline"`
	BudgetExpectations *string `json:"budget_expectations"`
	AdditionalNotes    *string `json:"additional_notes"`

	CurrentStep *int `json:"current_step"`
}

// loadOwnedIntake fetches the intake form for an order owned by the caller.
func loadOwnedIntake(c *gin.Context) (*models.IntakeForm, bool) {
	userVal, _ := c.Get("user")
	user := userVal.(models.User)
	orderID := c.Param("id")

	var form models.IntakeForm
	err := config.DB.Where("order_id = ? AND user_id = ?", orderID, user.ID).First(&form).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Intake form not found")
		} else {
			utils.LogError("Failed to load intake form for order %s: %v", orderID, err)
			utils.InternalServerError(c, "Failed to load intake form", nil)
		}
		return nil, false
	}
	return &form, true
}

// GetIntakeForm returns the caller's intake form for an order.
func GetIntakeForm(c *gin.Context) {
	form, ok := loadOwnedIntake(c)
	if !ok {
		return
	}
	utils.Success(c, "Intake form retrieved successfully", form)
}

// UpdateIntakeForm auto-saves wizard progress. Completed forms are frozen.
func UpdateIntakeForm(c *gin.Context) {
	form, ok := loadOwnedIntake(c)
	if !ok {
		return
	}

	if form.IsCompleted {
		utils.BadRequest(c, "Intake form is already completed", nil)
		return
	}

	var req IntakeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	updates := map[string]interface{}{}
	setString := func(column string, value *string) {
		if value == nil {
			return
		}
		sanitized := utils.SanitizeString(*value)
		if valid, msg := utils.ValidateXSS(sanitized); !valid {
			utils.LogSecurity("Rejected intake input on order %s: %s", form.OrderID, msg)
			return
		}
		updates[column] = sanitized
	}

	setString("business_name", req.BusinessName)
	setString("industry", req.Industry)
	setString("website_url", req.WebsiteURL)
	setString("contact_name", req.ContactName)
	setString("contact_email", req.ContactEmail)
	setString("contact_phone", req.ContactPhone)
	setString("project_goals", req.ProjectGoals)
	setString("project_description", req.ProjectDescription)
	setString("key_requirements", req.KeyRequirements)
	setString("competitors", req.Competitors)
	setString("target_audience", req.TargetAudience)
	setString("geographic_focus", req.GeographicFocus)
	setString("age_range", req.AgeRange)
	setString("customer_pain_points", req.CustomerPainPoints)
	setString("desired_start_date", req.DesiredStartDate)
	setString("deadline", req.Deadline)
	setString("budget_expectations", req.BudgetExpectations)
	setString("additional_notes", req.AdditionalNotes)

	if req.CurrentStep != nil {
		if *req.CurrentStep < 1 || *req.CurrentStep > 4 {
			utils.BadRequest(c, "Step must be between 1 and 4", nil)
			return
		}
		updates["current_step"] = *req.CurrentStep
	}

	if len(updates) == 0 {
		utils.Success(c, "Nothing to update", form)
		return
	}

	if err := config.DB.Model(form).Updates(updates).Error; err != nil {
		utils.LogError("Failed to save intake form for order %s: %v", form.OrderID, err)
		utils.InternalServerError(c, "Failed to save intake form", nil)
		return
	}

	config.DB.Where("id = ?", form.ID).First(form)
	utils.Success(c, "Intake form saved", form)
}

// CompleteIntakeForm validates required answers, seals the form, and
// provisions the delivery project.
func CompleteIntakeForm(c *gin.Context) {
	form, ok := loadOwnedIntake(c)
	if !ok {
		return
	}

	if form.IsCompleted {
		utils.Success(c, "Intake form already completed", form)
		return
	}

	required := []struct {
		field, value string
	}{
		{"business_name", form.BusinessName},
		{"contact_email", form.ContactEmail},
		{"project_goals", form.ProjectGoals},
	}
	for _, r := range required {
		if valid, msg := utils.ValidateRequiredText(r.field, r.value, 2); !valid {
			utils.BadRequest(c, msg, nil)
			return
		}
	}
	if valid, msg := utils.ValidateEmail(form.ContactEmail); !valid {
		utils.BadRequest(c, msg, nil)
		return
	}

	now := time.Now()
	if err := config.DB.Model(form).Updates(map[string]interface{}{
		"is_completed": true,
		"completed_at": now,
		"current_step": 4,
	}).Error; err != nil {
		utils.LogError("Failed to complete intake form for order %s: %v", form.OrderID, err)
		utils.InternalServerError(c, "Failed to complete intake form", nil)
		return
	}
	form.IsCompleted = true
	form.CompletedAt = &now
	form.CurrentStep = 4

	if err := config.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", form.OrderID, models.OrderStatusIntakePending).
		Update("status", models.OrderStatusIntakeCompleted).Error; err != nil {
		utils.LogError("Failed to advance order %s after intake: %v", form.OrderID, err)
	}

	provisionProject(form)

	utils.LogInfo("Intake completed for order %s", form.OrderID)
	utils.Success(c, "Intake form completed", form)
}

// provisionProject creates the delivery project for a completed intake.
// Idempotent via the unique index on order_id.
func provisionProject(form *models.IntakeForm) {
	var existing models.Project
	if err := config.DB.Where("order_id = ?", form.OrderID).First(&existing).Error; err == nil {
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.LogError("Failed to look up project for order %s: %v", form.OrderID, err)
		return
	}

	var order models.Order
	if err := config.DB.First(&order, "id = ?", form.OrderID).Error; err != nil {
		utils.LogError("Failed to load order %s for project creation: %v", form.OrderID, err)
		return
	}

	name := order.ProductName
	if form.BusinessName != "" {
		name = form.BusinessName + " - " + order.ProductName
	}
	project := models.Project{
		OrderID:     form.OrderID,
		UserID:      form.UserID,
		ProjectName: name,
		Status:      models.ProjectStatusNotStarted,
		Description: form.ProjectDescription,
	}
	if err := config.DB.Create(&project).Error; err != nil {
		utils.LogError("Failed to create project for order %s: %v", form.OrderID, err)
		return
	}
	utils.LogInfo("Project %d created for order %s", project.ID, form.OrderID)
}
