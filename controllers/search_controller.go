package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kovaikural/kural/models"
	"github.com/kovaikural/kural/utils"
)

// SearchController handles cross-entity search.
type SearchController struct {
	db *gorm.DB
}

// NewSearchController creates a SearchController.
func NewSearchController(db *gorm.DB) *SearchController {
	return &SearchController{db: db}
}

// Search looks q up across posts, users, and categories. ?type= narrows the
// search to one entity kind; default returns all three buckets.
func (s *SearchController) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		utils.Error(c, http.StatusBadRequest, 40018, "q parameter is required")
		return
	}
	kind := strings.ToLower(c.Query("type"))
	_, limit, _ := parsePagination("", c.Query("limit"))
	pattern := "%" + escapeLike(q) + "%"

	result := gin.H{}

	if kind == "" || kind == "posts" {
		var posts []models.Post
		s.db.Preload("Author").Preload("Category").
			Where("title LIKE ? OR body LIKE ?", pattern, pattern).
			Order("created_at DESC").
			Limit(limit).
			Find(&posts)
		result["posts"] = posts
	}
	if kind == "" || kind == "users" {
		var users []models.User
		s.db.Where("name LIKE ? OR handle LIKE ?", pattern, pattern).
			Limit(limit).
			Find(&users)
		result["users"] = users
	}
	if kind == "" || kind == "categories" {
		var categories []models.Category
		s.db.Where("title LIKE ? OR description LIKE ?", pattern, pattern).
			Limit(limit).
			Find(&categories)
		result["categories"] = categories
	}

	if len(result) == 0 {
		utils.Error(c, http.StatusBadRequest, 40019, "type must be posts, users, or categories")
		return
	}
	utils.Success(c, result)
}

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
