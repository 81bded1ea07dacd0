package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kovaikural/kural/models"
	"github.com/kovaikural/kural/utils"
)

// CategoryController handles category CRUD and membership.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController creates a CategoryController.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

type createCategoryRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description"`
	Rules       string `json:"rules"`
	ImageURL    string `json:"image_url"`
}

// Create makes a new category. The slug derives from the title; collisions get
// a numeric suffix. The creator becomes the first member and sole moderator.
func (cc *CategoryController) Create(c *gin.Context) {
	userID, _ := getUserID(c)
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "invalid category payload: "+err.Error())
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	base := utils.Slugify(title)
	if base == "" {
		utils.Error(c, http.StatusBadRequest, 40010, "title must contain letters or digits")
		return
	}

	category := models.Category{
		Title:       title,
		Description: utils.Sanitize(req.Description),
		Rules:       utils.Sanitize(req.Rules),
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}

	err := cc.db.Transaction(func(tx *gorm.DB) error {
		slug := base
		for n := 2; ; n++ {
			var count int64
			if err := tx.Model(&models.Category{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				break
			}
			slug = fmt.Sprintf("%s-%d", base, n)
		}
		category.Slug = slug

		if err := tx.Create(&category).Error; err != nil {
			return err
		}
		member := models.CategoryMember{CategoryID: category.ID, UserID: userID, Moderator: true}
		return tx.Create(&member).Error
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to create category")
		return
	}

	utils.Success(c, category)
}

// List returns all categories with derived post/member counts.
func (cc *CategoryController) List(c *gin.Context) {
	var categories []models.Category
	if err := cc.db.Order("title ASC").Find(&categories).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to load categories")
		return
	}
	for i := range categories {
		cc.fillCounts(&categories[i])
	}
	utils.Success(c, categories)
}

// GetBySlug returns one category with counts and a first page of its posts.
func (cc *CategoryController) GetBySlug(c *gin.Context) {
	slug := strings.ToLower(c.Param("slug"))
	var category models.Category
	err := cc.db.Where("slug = ?", slug).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(c, http.StatusNotFound, 40403, "category not found")
			return
		}
		utils.Error(c, http.StatusInternalServerError, 50000, "database error")
		return
	}
	cc.fillCounts(&category)

	_, limit, offset := parsePagination(c.Query("page"), c.Query("limit"))
	var posts []models.Post
	cc.db.Where("category_id = ?", category.ID).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts)

	utils.Success(c, gin.H{"category": category, "posts": posts})
}

type updateCategoryRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Rules       *string `json:"rules"`
	ImageURL    *string `json:"image_url"`
}

// Update edits category fields. Moderators of the category and admins only.
// The slug never changes after creation, links stay stable.
func (cc *CategoryController) Update(c *gin.Context) {
	userID, _ := getUserID(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid category id")
		return
	}

	var category models.Category
	if err := cc.db.First(&category, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40403, "category not found")
		return
	}

	if !isAdmin(c) && !cc.isModerator(id, userID) {
		utils.Error(c, http.StatusForbidden, 40303, "only a moderator or an admin can edit this category")
		return
	}

	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "invalid category payload")
		return
	}

	if req.Title != nil {
		title := utils.Sanitize(strings.TrimSpace(*req.Title))
		if title == "" {
			utils.Error(c, http.StatusBadRequest, 40010, "title cannot be empty")
			return
		}
		category.Title = title
	}
	if req.Description != nil {
		category.Description = utils.Sanitize(*req.Description)
	}
	if req.Rules != nil {
		category.Rules = utils.Sanitize(*req.Rules)
	}
	if req.ImageURL != nil {
		category.ImageURL = strings.TrimSpace(*req.ImageURL)
	}

	if err := cc.db.Save(&category).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to update category")
		return
	}
	cc.fillCounts(&category)
	utils.Success(c, category)
}

// Join adds the caller as a member. Idempotent.
func (cc *CategoryController) Join(c *gin.Context) {
	userID, _ := getUserID(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid category id")
		return
	}
	var category models.Category
	if err := cc.db.First(&category, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40403, "category not found")
		return
	}

	member := models.CategoryMember{CategoryID: id, UserID: userID}
	if err := cc.db.Where("category_id = ? AND user_id = ?", id, userID).
		FirstOrCreate(&member).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to join category")
		return
	}
	utils.Success(c, gin.H{"joined": true})
}

// Leave removes the caller's membership. Idempotent. Moderator rows are kept
// so a category is never left without its moderator by accident.
func (cc *CategoryController) Leave(c *gin.Context) {
	userID, _ := getUserID(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid category id")
		return
	}

	if cc.isModerator(id, userID) {
		utils.Error(c, http.StatusBadRequest, 40011, "moderators cannot leave their category")
		return
	}
	cc.db.Where("category_id = ? AND user_id = ?", id, userID).Delete(&models.CategoryMember{})
	utils.Success(c, gin.H{"joined": false})
}

func (cc *CategoryController) fillCounts(category *models.Category) {
	cc.db.Model(&models.Post{}).Where("category_id = ?", category.ID).Count(&category.PostCount)
	cc.db.Model(&models.CategoryMember{}).Where("category_id = ?", category.ID).Count(&category.MemberCount)
}

func (cc *CategoryController) isModerator(categoryID, userID uint) bool {
	var count int64
	cc.db.Model(&models.CategoryMember{}).
		Where("category_id = ? AND user_id = ? AND moderator = ?", categoryID, userID, true).
		Count(&count)
	return count > 0
}
