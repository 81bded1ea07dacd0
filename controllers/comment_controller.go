package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kovaikural/kural/models"
	"github.com/kovaikural/kural/services"
	"github.com/kovaikural/kural/utils"
)

// CommentController handles threaded comments on posts.
type CommentController struct {
	db       *gorm.DB
	notifier *services.Notifier
	votes    *services.VoteService
}

// NewCommentController creates a CommentController.
func NewCommentController(db *gorm.DB, notifier *services.Notifier, votes *services.VoteService) *CommentController {
	return &CommentController{db: db, notifier: notifier, votes: votes}
}

type createCommentRequest struct {
	Body     string `json:"body" binding:"required,min=1"`
	ParentID *uint  `json:"parent_id"`
}

// CreateComment adds a comment (or reply) to a post and notifies the post
// author. The author is never notified of their own comments.
func (cc *CommentController) CreateComment(c *gin.Context) {
	userID, _ := getUserID(c)
	postID, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid post id")
		return
	}
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "invalid comment payload")
		return
	}

	var post models.Post
	if err := cc.db.First(&post, postID).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40402, "post not found")
		return
	}

	if req.ParentID != nil {
		var parent models.Comment
		if err := cc.db.First(&parent, *req.ParentID).Error; err != nil {
			utils.Error(c, http.StatusNotFound, 40404, "parent comment not found")
			return
		}
		if parent.PostID != postID {
			utils.Error(c, http.StatusBadRequest, 40009, "parent comment belongs to another post")
			return
		}
	}

	comment := models.Comment{
		PostID:   postID,
		AuthorID: userID,
		ParentID: req.ParentID,
		Body:     utils.Sanitize(strings.TrimSpace(req.Body)),
	}
	if err := cc.db.Create(&comment).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to create comment")
		return
	}

	if post.AuthorID != userID {
		cc.notifier.Notify(post.AuthorID, &userID, models.NotificationTypeComment,
			models.EntityTypePost, post.ID, "commented on your post")
	}

	cc.db.Preload("Author").First(&comment, comment.ID)
	utils.Success(c, comment)
}

// ListComments returns the post's comments nested into a reply tree, oldest
// first. Replies whose parent was deleted surface as top-level comments.
func (cc *CommentController) ListComments(c *gin.Context) {
	postID, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid post id")
		return
	}

	var comments []models.Comment
	err := cc.db.Where("post_id = ?", postID).
		Preload("Author").
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to load comments")
		return
	}

	utils.Success(c, gin.H{
		"comments": services.BuildCommentTree(comments),
		"total":    len(comments),
	})
}

// Vote applies an up or down vote to a comment.
func (cc *CommentController) Vote(c *gin.Context) {
	userID, _ := getUserID(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid comment id")
		return
	}
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "invalid vote payload")
		return
	}

	comment, err := cc.votes.VoteComment(userID, id, strings.ToLower(req.Type))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadDirection):
			utils.Error(c, http.StatusBadRequest, 40006, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.Error(c, http.StatusNotFound, 40404, "comment not found")
		default:
			utils.Error(c, http.StatusInternalServerError, 50000, "failed to apply vote")
		}
		return
	}
	utils.Success(c, gin.H{"id": comment.ID, "votes": comment.Votes})
}

// DeleteComment removes a comment and its votes. Children stay and surface as
// roots in the thread view. Only the author or an admin may delete.
func (cc *CommentController) DeleteComment(c *gin.Context) {
	userID, _ := getUserID(c)
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid comment id")
		return
	}

	var comment models.Comment
	if err := cc.db.First(&comment, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40404, "comment not found")
		return
	}
	if comment.AuthorID != userID && !isAdmin(c) {
		utils.Error(c, http.StatusForbidden, 40302, "only the author or an admin can delete this comment")
		return
	}

	err := cc.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, id).Error
	})
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to delete comment")
		return
	}
	utils.Success(c, gin.H{"deleted": true})
}
