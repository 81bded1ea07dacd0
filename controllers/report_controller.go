package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kovaikural/kural/models"
	"github.com/kovaikural/kural/utils"
)

// ReportController handles flagging content and moderator review.
type ReportController struct {
	db *gorm.DB
}

// NewReportController creates a ReportController.
func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{db: db}
}

var validReasons = map[string]bool{
	models.ReasonSpam:           true,
	models.ReasonHarassment:     true,
	models.ReasonInappropriate:  true,
	models.ReasonMisinformation: true,
	models.ReasonOther:          true,
}

var validReportTypes = map[string]bool{
	models.ReportTypePost:    true,
	models.ReportTypeUser:    true,
	models.ReportTypeComment: true,
}

type createReportRequest struct {
	ReportType   string `json:"report_type" binding:"required"`
	TargetID     uint   `json:"target_id" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
	CustomReason string `json:"custom_reason"`
}

// Create files a report. Duplicates by the same reporter for the same target
// are rejected; OTHER requires free text; the target must exist. Posts carry
// their category so category moderators see the report.
func (r *ReportController) Create(c *gin.Context) {
	userID, _ := getUserID(c)
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "invalid report payload: "+err.Error())
		return
	}

	reportType := strings.ToUpper(req.ReportType)
	reason := strings.ToUpper(req.Reason)
	if !validReportTypes[reportType] {
		utils.Error(c, http.StatusBadRequest, 40012, "report_type must be POST, USER, or COMMENT")
		return
	}
	if !validReasons[reason] {
		utils.Error(c, http.StatusBadRequest, 40013, "unknown report reason")
		return
	}
	custom := strings.TrimSpace(req.CustomReason)
	if reason == models.ReasonOther && custom == "" {
		utils.Error(c, http.StatusBadRequest, 40014, "custom_reason is required when reason is OTHER")
		return
	}

	var categoryID *uint
	switch reportType {
	case models.ReportTypePost:
		var post models.Post
		if err := r.db.First(&post, req.TargetID).Error; err != nil {
			utils.Error(c, http.StatusNotFound, 40402, "post not found")
			return
		}
		categoryID = post.CategoryID
	case models.ReportTypeComment:
		var comment models.Comment
		if err := r.db.First(&comment, req.TargetID).Error; err != nil {
			utils.Error(c, http.StatusNotFound, 40404, "comment not found")
			return
		}
	case models.ReportTypeUser:
		var user models.User
		if err := r.db.First(&user, req.TargetID).Error; err != nil {
			utils.Error(c, http.StatusNotFound, 40401, "user not found")
			return
		}
	}

	var count int64
	r.db.Model(&models.Report{}).
		Where("reported_by_id = ? AND report_type = ? AND target_id = ?", userID, reportType, req.TargetID).
		Count(&count)
	if count > 0 {
		utils.Error(c, http.StatusBadRequest, 40015, "you already reported this")
		return
	}

	report := models.Report{
		ReportedByID: userID,
		ReportType:   reportType,
		TargetID:     req.TargetID,
		Reason:       reason,
		CustomReason: utils.Sanitize(custom),
		Status:       models.ReportStatusPending,
		CategoryID:   categoryID,
	}
	if err := r.db.Create(&report).Error; err != nil {
		utils.Error(c, http.StatusBadRequest, 40015, "you already reported this")
		return
	}
	utils.Success(c, report)
}

// ListForCategory returns a category's reports for its moderators.
func (r *ReportController) ListForCategory(c *gin.Context) {
	userID, _ := getUserID(c)
	categoryID, ok := parseUintParam(c, "categoryId")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid category id")
		return
	}

	if !isAdmin(c) && !r.isModerator(categoryID, userID) {
		utils.Error(c, http.StatusForbidden, 40303, "only a moderator or an admin can view these reports")
		return
	}

	_, limit, offset := parsePagination(c.Query("page"), c.Query("limit"))
	q := r.db.Model(&models.Report{}).Where("category_id = ?", categoryID)
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", strings.ToUpper(status))
	}

	var reports []models.Report
	err := q.Preload("ReportedBy").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&reports).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to load reports")
		return
	}
	utils.Success(c, reports)
}

// ListAll returns every report. Admin only (gated by route middleware).
func (r *ReportController) ListAll(c *gin.Context) {
	_, limit, offset := parsePagination(c.Query("page"), c.Query("limit"))
	q := r.db.Model(&models.Report{})
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", strings.ToUpper(status))
	}

	var total int64
	q.Count(&total)

	var reports []models.Report
	err := q.Preload("ReportedBy").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&reports).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to load reports")
		return
	}
	utils.Success(c, gin.H{"reports": reports, "total": total})
}

type updateReportRequest struct {
	Status     string `json:"status" binding:"required"`
	ReviewNote string `json:"review_note"`
}

var validReportStatuses = map[string]bool{
	models.ReportStatusPending:   true,
	models.ReportStatusReviewed:  true,
	models.ReportStatusResolved:  true,
	models.ReportStatusDismissed: true,
}

// UpdateStatus moves a report through the review workflow. Admins anywhere,
// moderators within their category.
func (r *ReportController) UpdateStatus(c *gin.Context) {
	userID, _ := getUserID(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid report id")
		return
	}
	var req updateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "invalid report payload")
		return
	}
	status := strings.ToUpper(req.Status)
	if !validReportStatuses[status] {
		utils.Error(c, http.StatusBadRequest, 40016, "unknown report status")
		return
	}

	var report models.Report
	if err := r.db.First(&report, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40405, "report not found")
		return
	}
	if !r.canModerate(c, &report, userID) {
		utils.Error(c, http.StatusForbidden, 40303, "only a moderator or an admin can review this report")
		return
	}

	updates := map[string]interface{}{
		"status":         status,
		"reviewed_by_id": userID,
		"review_note":    utils.Sanitize(strings.TrimSpace(req.ReviewNote)),
	}
	if err := r.db.Model(&report).Updates(updates).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to update report")
		return
	}
	r.db.Preload("ReportedBy").First(&report, id)
	utils.Success(c, report)
}

// DeleteContent removes the reported post or comment and resolves the report.
// USER reports cannot be resolved this way.
func (r *ReportController) DeleteContent(c *gin.Context) {
	userID, _ := getUserID(c)
	reportID, ok := parseUintParam(c, "reportId")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid report id")
		return
	}

	var report models.Report
	if err := r.db.First(&report, reportID).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40405, "report not found")
		return
	}
	if !r.canModerate(c, &report, userID) {
		utils.Error(c, http.StatusForbidden, 40303, "only a moderator or an admin can act on this report")
		return
	}
	if report.ReportType == models.ReportTypeUser {
		utils.Error(c, http.StatusBadRequest, 40017, "user reports have no content to delete")
		return
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		switch report.ReportType {
		case models.ReportTypePost:
			var post models.Post
			if err := tx.First(&post, report.TargetID).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				// Already gone; still resolve the report.
			} else if err := deletePostCascade(tx, post.ID); err != nil {
				return err
			}
		case models.ReportTypeComment:
			if err := tx.Where("comment_id = ?", report.TargetID).Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Comment{}, report.TargetID).Error; err != nil {
				return err
			}
		}
		return tx.Model(&report).Updates(map[string]interface{}{
			"status":         models.ReportStatusResolved,
			"reviewed_by_id": userID,
		}).Error
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to delete reported content")
		return
	}

	utils.InvalidateByPrefix(postListCachePrefix)
	utils.Success(c, gin.H{"deleted": true, "report_status": models.ReportStatusResolved})
}

func (r *ReportController) canModerate(c *gin.Context, report *models.Report, userID uint) bool {
	if isAdmin(c) {
		return true
	}
	if report.CategoryID == nil {
		return false
	}
	return r.isModerator(*report.CategoryID, userID)
}

func (r *ReportController) isModerator(categoryID, userID uint) bool {
	var count int64
	r.db.Model(&models.CategoryMember{}).
		Where("category_id = ? AND user_id = ? AND moderator = ?", categoryID, userID, true).
		Count(&count)
	return count > 0
}
