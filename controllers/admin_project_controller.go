package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/synergyx/agency-api/config"
	"github.com/synergyx/agency-api/models"
	"github.com/synergyx/agency-api/utils"
)

// validProjectStatuses gates the admin status field.
var validProjectStatuses = map[string]bool{
	models.ProjectStatusNotStarted: true,
	models.ProjectStatusDiscovery:  true,
	models.ProjectStatusInProgress: true,
	models.ProjectStatusReview:     true,
	models.ProjectStatusRevisions:  true,
	models.ProjectStatusCompleted:  true,
	models.ProjectStatusOnHold:     true,
	models.ProjectStatusCancelled:  true,
}

// AdminListProjects returns all projects, optionally filtered by status.
func AdminListProjects(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Project{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count projects: %v", err)
		utils.InternalServerError(c, "Failed to fetch projects", nil)
		return
	}
	pagination.SetTotal(total)

	var projects []models.Project
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&projects).Error; err != nil {
		utils.LogError("Failed to fetch projects: %v", err)
		utils.InternalServerError(c, "Failed to fetch projects", nil)
		return
	}

	utils.SendPaginatedResponse(c, "Projects retrieved successfully", projects, pagination)
}

// AdminUpdateProjectRequest carries editable project fields.
type AdminUpdateProjectRequest struct {
	Status                  *string `json:"status"`
	ProgressPercent         *int    `json:"progress_percentage"`
	EstimatedCompletionDate *string `json:"estimated_completion_date"` // YYYY-MM-DD
	Description             *string `json:"description"`
	Deliverables            *string `json:"deliverables"`
	Milestones              *string `json:"milestones"`
	Notes                   *string `json:"notes"`
}

// AdminUpdateProject edits a project. Status changes are mirrored into the
// activity feed so clients see them.
func AdminUpdateProject(c *gin.Context) {
	projectID := c.Param("id")

	var project models.Project
	if err := config.DB.First(&project, "id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Project not found")
			return
		}
		utils.LogError("Failed to load project %s: %v", projectID, err)
		utils.InternalServerError(c, "Failed to load project", nil)
		return
	}

	var req AdminUpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	updates := map[string]interface{}{}
	statusChanged := false

	if req.Status != nil && *req.Status != project.Status {
		if !validProjectStatuses[*req.Status] {
			utils.BadRequest(c, "Invalid project status", nil)
			return
		}
		updates["status"] = *req.Status
		statusChanged = true

		now := time.Now()
		if *req.Status == models.ProjectStatusInProgress && project.StartedAt == nil {
			updates["started_at"] = now
		}
		if *req.Status == models.ProjectStatusCompleted {
			updates["completed_at"] = now
			updates["progress_percent"] = 100
		}
	}
	if req.ProgressPercent != nil {
		if *req.ProgressPercent < 0 || *req.ProgressPercent > 100 {
			utils.BadRequest(c, "Progress must be between 0 and 100", nil)
			return
		}
		updates["progress_percent"] = *req.ProgressPercent
	}
	if req.EstimatedCompletionDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.EstimatedCompletionDate)
		if err != nil {
			utils.BadRequest(c, "Estimated completion date must be YYYY-MM-DD", nil)
			return
		}
		updates["estimated_completion_date"] = parsed
	}
	if req.Description != nil {
		updates["description"] = utils.SanitizeString(*req.Description)
	}
	if req.Deliverables != nil {
		updates["deliverables"] = *req.Deliverables
	}
	if req.Milestones != nil {
		updates["milestones"] = *req.Milestones
	}
	if req.Notes != nil {
		updates["notes"] = utils.SanitizeString(*req.Notes)
	}

	if len(updates) == 0 {
		utils.BadRequest(c, "Nothing to update", nil)
		return
	}

	if err := config.DB.Model(&project).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update project %d: %v", project.ID, err)
		utils.InternalServerError(c, "Failed to update project", nil)
		return
	}

	if statusChanged {
		entry := models.ProjectUpdate{
			ProjectID:      project.ID,
			Title:          "Status updated",
			Description:    "Project status changed to " + *req.Status,
			UpdateType:     models.UpdateTypeStatusChange,
			CreatedByAdmin: true,
		}
		if err := config.DB.Create(&entry).Error; err != nil {
			utils.LogError("Failed to record status change for project %d: %v", project.ID, err)
		}

		// Mirror terminal project states onto the order for the client's list.
		if *req.Status == models.ProjectStatusInProgress {
			config.DB.Model(&models.Order{}).
				Where("id = ? AND status = ?", project.OrderID, models.OrderStatusIntakeCompleted).
				Update("status", models.OrderStatusInProgress)
		}
		if *req.Status == models.ProjectStatusCompleted {
			config.DB.Model(&models.Order{}).
				Where("id = ? AND status IN ?", project.OrderID, []string{models.OrderStatusIntakeCompleted, models.OrderStatusInProgress}).
				Update("status", models.OrderStatusCompleted)
		}
	}

	config.DB.First(&project, project.ID)
	utils.LogInfo("Admin updated project %d", project.ID)
	utils.Success(c, "Project updated successfully", project)
}

// AdminCreateProjectUpdateRequest is a new activity feed entry.
type AdminCreateProjectUpdateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	UpdateType  string `json:"update_type"`
}

// AdminCreateProjectUpdate posts an entry to a project's activity feed.
func AdminCreateProjectUpdate(c *gin.Context) {
	projectID := c.Param("id")

	var project models.Project
	if err := config.DB.First(&project, "id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Project not found")
			return
		}
		utils.LogError("Failed to load project %s: %v", projectID, err)
		utils.InternalServerError(c, "Failed to load project", nil)
		return
	}

	var req AdminCreateProjectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	updateType := req.UpdateType
	switch updateType {
	case "":
		updateType = models.UpdateTypeGeneral
	case models.UpdateTypeMilestone, models.UpdateTypeStatusChange,
		models.UpdateTypeGeneral, models.UpdateTypeRevisionRequest:
	default:
		utils.BadRequest(c, "Invalid update type", nil)
		return
	}

	entry := models.ProjectUpdate{
		ProjectID:      project.ID,
		Title:          utils.SanitizeString(req.Title),
		Description:    utils.SanitizeString(req.Description),
		UpdateType:     updateType,
		CreatedByAdmin: true,
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		utils.LogError("Failed to create update for project %d: %v", project.ID, err)
		utils.InternalServerError(c, "Failed to create project update", nil)
		return
	}

	utils.Created(c, "Project update posted", entry)
}
