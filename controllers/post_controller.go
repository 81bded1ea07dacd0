package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kovaikural/kural/models"
	"github.com/kovaikural/kural/services"
	"github.com/kovaikural/kural/utils"
)

const postListCachePrefix = "posts:list:"

// PostController handles post CRUD, voting, and image upload.
type PostController struct {
	db       *gorm.DB
	notifier *services.Notifier
	votes    *services.VoteService
}

// NewPostController creates a PostController.
func NewPostController(db *gorm.DB, notifier *services.Notifier, votes *services.VoteService) *PostController {
	return &PostController{db: db, notifier: notifier, votes: votes}
}

type createPostRequest struct {
	Title      string               `json:"title" binding:"required,min=3,max=255"`
	Body       string               `json:"body"`
	Images     []string             `json:"images"`
	CategoryID *uint                `json:"category_id"`
	Mentions   services.MentionList `json:"mentions"`
}

// CreatePost creates a post, records mentions, and fans notifications out to
// category members and mentioned users.
func (p *PostController) CreatePost(c *gin.Context) {
	userID, _ := getUserID(c)
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "invalid post payload: "+err.Error())
		return
	}

	if req.CategoryID != nil {
		var cat models.Category
		if err := p.db.First(&cat, *req.CategoryID).Error; err != nil {
			utils.Error(c, http.StatusNotFound, 40403, "category not found")
			return
		}
	}

	images := "[]"
	if len(req.Images) > 0 {
		if b, err := json.Marshal(req.Images); err == nil {
			images = string(b)
		}
	}

	post := models.Post{
		AuthorID:   userID,
		Title:      utils.Sanitize(strings.TrimSpace(req.Title)),
		Body:       utils.Sanitize(req.Body),
		Images:     images,
		CategoryID: req.CategoryID,
		Status:     models.PostStatusOpen,
	}

	mentionIDs, err := services.ResolveMentions(p.db, req.Mentions)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to resolve mentions")
		return
	}

	err = p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		for _, id := range mentionIDs {
			if err := tx.Create(&models.PostMention{PostID: post.ID, UserID: id}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to create post")
		return
	}

	// Fan out after commit, best effort.
	if post.CategoryID != nil {
		var memberIDs []uint
		p.db.Model(&models.CategoryMember{}).
			Where("category_id = ?", *post.CategoryID).
			Pluck("user_id", &memberIDs)
		p.notifier.NotifyMany(memberIDs, &userID, models.NotificationTypeNewPost,
			models.EntityTypePost, post.ID, "posted in a category you joined")
	}
	p.notifier.NotifyMany(mentionIDs, &userID, models.NotificationTypeMention,
		models.EntityTypePost, post.ID, "mentioned you in a post")

	utils.InvalidateByPrefix(postListCachePrefix)

	p.db.Preload("Author").Preload("Category").First(&post, post.ID)
	utils.Success(c, post)
}

// ListPosts returns a page of posts with optional category/status/author
// filters, newest first. The first unfiltered page is cached briefly.
func (p *PostController) ListPosts(c *gin.Context) {
	page, limit, offset := parsePagination(c.Query("page"), c.Query("limit"))
	category := c.Query("category")
	status := c.Query("status")
	author := c.Query("author")

	cacheable := category == "" && status == "" && author == "" && page == 1
	cacheKey := postListCachePrefix + "p1"
	if cacheable {
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			c.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	q := p.db.Model(&models.Post{}).Preload("Author").Preload("Category")
	if category != "" {
		q = q.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("categories.slug = ?", category)
	}
	if status != "" {
		q = q.Where("posts.status = ?", strings.ToUpper(status))
	}
	if author != "" {
		q = q.Where("posts.author_id = ?", author)
	}

	var total int64
	q.Count(&total)

	var posts []models.Post
	if err := q.Order("posts.created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to load posts")
		return
	}

	payload := gin.H{"posts": posts, "total": total, "page": page, "limit": limit}
	if cacheable {
		if b, err := json.Marshal(utils.JSONResponse{Code: 0, Message: "success", Data: payload}); err == nil {
			utils.CacheSetBytes(cacheKey, b, 30*time.Second)
		}
	}
	utils.Success(c, payload)
}

// GetPost returns a single post with its comment count.
func (p *PostController) GetPost(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid post id")
		return
	}

	var post models.Post
	err := p.db.Preload("Author").Preload("Category").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(c, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(c, http.StatusInternalServerError, 50000, "database error")
		return
	}

	var commentCount int64
	p.db.Model(&models.Comment{}).Where("post_id = ?", id).Count(&commentCount)

	utils.Success(c, gin.H{"post": post, "comment_count": commentCount})
}

// DeletePost removes a post along with its comments, votes, mentions, and
// bookmarks. Only the author or an admin may delete.
func (p *PostController) DeletePost(c *gin.Context) {
	userID, _ := getUserID(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid post id")
		return
	}

	var post models.Post
	if err := p.db.First(&post, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40402, "post not found")
		return
	}
	if post.AuthorID != userID && !isAdmin(c) {
		utils.Error(c, http.StatusForbidden, 40302, "only the author or an admin can delete this post")
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		return deletePostCascade(tx, id)
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix(postListCachePrefix)
	utils.Success(c, gin.H{"deleted": true})
}

type voteRequest struct {
	Type string `json:"type" binding:"required"`
}

// Vote applies an up or down vote to the post.
func (p *PostController) Vote(c *gin.Context) {
	userID, _ := getUserID(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid post id")
		return
	}
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "invalid vote payload")
		return
	}

	post, err := p.votes.VotePost(userID, id, strings.ToLower(req.Type))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadDirection):
			utils.Error(c, http.StatusBadRequest, 40006, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(c, http.StatusNotFound, 40402, "post not found")
		default:
			utils.Error(c, http.StatusInternalServerError, 50000, "failed to apply vote")
		}
		return
	}

	utils.InvalidateByPrefix(postListCachePrefix)
	utils.Success(c, gin.H{"id": post.ID, "votes": post.Votes})
}

// UploadImage stores one image and returns its URL.
func (p *PostController) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, 40007, "image file is required")
		return
	}
	url, err := utils.SaveUploadedImage(c, file)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, 40008, err.Error())
		return
	}
	utils.Success(c, gin.H{"url": url})
}

// deletePostCascade removes a post and every row referencing it.
func deletePostCascade(tx *gorm.DB, postID uint) error {
	var commentIDs []uint
	if err := tx.Model(&models.Comment{}).Where("post_id = ?", postID).
		Pluck("id", &commentIDs).Error; err != nil {
		return err
	}
	if len(commentIDs) > 0 {
		if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.Vote{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostMention{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.SavedPost{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Post{}, postID).Error
}
