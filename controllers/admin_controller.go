package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kovaikural/kural/models"
	"github.com/kovaikural/kural/utils"
)

// AdminController handles the admin dashboard endpoints. All routes using it
// sit behind the ADMIN role gate.
type AdminController struct {
	db *gorm.DB
}

// NewAdminController creates an AdminController.
func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

// Analytics returns platform totals, recent activity, top users by points,
// and the post status breakdown.
func (a *AdminController) Analytics(c *gin.Context) {
	var userCount, postCount, commentCount, categoryCount, pendingReports int64
	a.db.Model(&models.User{}).Count(&userCount)
	a.db.Model(&models.Post{}).Count(&postCount)
	a.db.Model(&models.Comment{}).Count(&commentCount)
	a.db.Model(&models.Category{}).Count(&categoryCount)
	a.db.Model(&models.Report{}).Where("status = ?", models.ReportStatusPending).Count(&pendingReports)

	var recentUsers []models.User
	a.db.Order("created_at DESC").Limit(5).Find(&recentUsers)

	var recentPosts []models.Post
	a.db.Preload("Author").Order("created_at DESC").Limit(5).Find(&recentPosts)

	var topUsers []models.User
	a.db.Order("points DESC").Limit(5).Find(&topUsers)

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var byStatus []statusCount
	a.db.Model(&models.Post{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&byStatus)

	utils.Success(c, gin.H{
		"totals": gin.H{
			"users":           userCount,
			"posts":           postCount,
			"comments":        commentCount,
			"categories":      categoryCount,
			"pending_reports": pendingReports,
		},
		"recent_users":    recentUsers,
		"recent_posts":    recentPosts,
		"top_users":       topUsers,
		"posts_by_status": byStatus,
	})
}

type promoteRequest struct {
	Role string `json:"role" binding:"required"`
}

// PromoteUser changes a user's role. Admins cannot demote themselves, the
// platform always keeps at least the acting admin.
func (a *AdminController) PromoteUser(c *gin.Context) {
	adminID, _ := getUserID(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid user id")
		return
	}
	var req promoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "invalid role payload")
		return
	}

	role := strings.ToUpper(req.Role)
	switch role {
	case models.RolePublic, models.RoleOfficial, models.RoleAdmin:
	default:
		utils.Error(c, http.StatusBadRequest, 40020, "role must be PUBLIC, OFFICIAL, or ADMIN")
		return
	}
	if id == adminID && role != models.RoleAdmin {
		utils.Error(c, http.StatusBadRequest, 40021, "cannot demote yourself")
		return
	}

	var user models.User
	if err := a.db.First(&user, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40401, "user not found")
		return
	}
	if err := a.db.Model(&user).Update("role", role).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to update role")
		return
	}
	user.Role = role
	utils.Success(c, user)
}

// ListUsers pages through every account, newest first, with optional
// ?role= and ?q= (name/handle/email) filters.
func (a *AdminController) ListUsers(c *gin.Context) {
	page, limit, offset := parsePagination(c.Query("page"), c.Query("limit"))

	q := a.db.Model(&models.User{})
	if role := strings.ToUpper(c.Query("role")); role != "" {
		q = q.Where("role = ?", role)
	}
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		q = q.Where("name LIKE ? OR handle LIKE ? OR email LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	q.Count(&total)

	var users []models.User
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to load users")
		return
	}
	utils.Success(c, gin.H{"users": users, "total": total, "page": page, "limit": limit})
}
