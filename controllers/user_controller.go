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

// UserController handles profiles, follows, saved posts, and discovery.
type UserController struct {
	db       *gorm.DB
	notifier *services.Notifier
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB, notifier *services.Notifier) *UserController {
	return &UserController{db: db, notifier: notifier}
}

// profileView is the public shape of a user plus derived counters.
type profileView struct {
	models.User
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
	PostCount      int64 `json:"post_count"`
}

func (u *UserController) buildProfile(user models.User) profileView {
	view := profileView{User: user}
	u.db.Model(&models.Follow{}).Where("followee_id = ?", user.ID).Count(&view.FollowerCount)
	u.db.Model(&models.Follow{}).Where("follower_id = ?", user.ID).Count(&view.FollowingCount)
	u.db.Model(&models.Post{}).Where("author_id = ?", user.ID).Count(&view.PostCount)
	return view
}

// GetPublicProfile returns a user's profile by numeric id.
func (u *UserController) GetPublicProfile(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid user id")
		return
	}
	var user models.User
	if err := u.db.First(&user, id).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40401, "user not found")
		return
	}
	utils.Success(c, u.buildProfile(user))
}

// GetProfileByHandle returns a user's profile by handle.
func (u *UserController) GetProfileByHandle(c *gin.Context) {
	handle := strings.ToLower(c.Param("handle"))
	var user models.User
	if err := u.db.Where("handle = ?", handle).First(&user).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40401, "user not found")
		return
	}
	utils.Success(c, u.buildProfile(user))
}

type updateProfileRequest struct {
	Name      *string `json:"name"`
	Handle    *string `json:"handle"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// UpdateProfile lets the authenticated user change name, handle, bio, avatar.
func (u *UserController) UpdateProfile(c *gin.Context) {
	userID, _ := getUserID(c)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "invalid profile payload")
		return
	}

	var user models.User
	if err := u.db.First(&user, userID).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40401, "user not found")
		return
	}

	if req.Handle != nil {
		handle := strings.ToLower(strings.TrimSpace(*req.Handle))
		if !validHandle(handle) {
			utils.Error(c, http.StatusBadRequest, 40002, "handle may only contain lowercase letters, digits, '_' and '.'")
			return
		}
		if handle != user.Handle {
			var count int64
			u.db.Model(&models.User{}).Where("handle = ? AND id <> ?", handle, userID).Count(&count)
			if count > 0 {
				utils.Error(c, http.StatusBadRequest, 40003, "handle already taken")
				return
			}
			user.Handle = handle
		}
	}
	if req.Name != nil {
		name := utils.Sanitize(strings.TrimSpace(*req.Name))
		if name == "" {
			utils.Error(c, http.StatusBadRequest, 40001, "name cannot be empty")
			return
		}
		user.Name = name
	}
	if req.Bio != nil {
		user.Bio = utils.Sanitize(*req.Bio)
	}
	if req.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}

	if err := u.db.Save(&user).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to update profile")
		return
	}
	utils.Success(c, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// ChangePassword verifies the current password then stores a new hash.
func (u *UserController) ChangePassword(c *gin.Context) {
	userID, _ := getUserID(c)
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, 40001, "invalid password payload")
		return
	}

	var user models.User
	if err := u.db.First(&user, userID).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40401, "user not found")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		utils.Error(c, http.StatusUnauthorized, 40104, "current password is incorrect")
		return
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50001, "failed to process password")
		return
	}
	if err := u.db.Model(&user).Update("password_hash", hash).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to update password")
		return
	}
	utils.Success(c, gin.H{"message": "password updated"})
}

// Follow makes the caller follow the target user. Idempotent; self-follow 400.
func (u *UserController) Follow(c *gin.Context) {
	userID, _ := getUserID(c)
	targetID, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid user id")
		return
	}
	if targetID == userID {
		utils.Error(c, http.StatusBadRequest, 40005, "cannot follow yourself")
		return
	}

	var target models.User
	if err := u.db.First(&target, targetID).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40401, "user not found")
		return
	}

	var existing models.Follow
	err := u.db.Where("follower_id = ? AND followee_id = ?", userID, targetID).First(&existing).Error
	if err == nil {
		utils.Success(c, gin.H{"following": true})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(c, http.StatusInternalServerError, 50000, "database error")
		return
	}

	follow := models.Follow{FollowerID: userID, FolloweeID: targetID}
	if err := u.db.Create(&follow).Error; err != nil {
		// Unique index makes a concurrent duplicate harmless.
		utils.Success(c, gin.H{"following": true})
		return
	}

	u.notifier.Notify(targetID, &userID, models.NotificationTypeFollow,
		models.EntityTypeUser, userID, "started following you")
	utils.Success(c, gin.H{"following": true})
}

// Unfollow removes the follow edge. Idempotent.
func (u *UserController) Unfollow(c *gin.Context) {
	userID, _ := getUserID(c)
	targetID, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid user id")
		return
	}
	u.db.Where("follower_id = ? AND followee_id = ?", userID, targetID).Delete(&models.Follow{})
	utils.Success(c, gin.H{"following": false})
}

// SavePost bookmarks a post for the caller. Idempotent.
func (u *UserController) SavePost(c *gin.Context) {
	userID, _ := getUserID(c)
	postID, ok := parseUintParam(c, "postId")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid post id")
		return
	}
	var post models.Post
	if err := u.db.First(&post, postID).Error; err != nil {
		utils.Error(c, http.StatusNotFound, 40402, "post not found")
		return
	}

	saved := models.SavedPost{UserID: userID, PostID: postID}
	if err := u.db.Where(&saved).FirstOrCreate(&saved).Error; err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to save post")
		return
	}
	utils.Success(c, gin.H{"saved": true})
}

// UnsavePost removes a bookmark. Idempotent.
func (u *UserController) UnsavePost(c *gin.Context) {
	userID, _ := getUserID(c)
	postID, ok := parseUintParam(c, "postId")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid post id")
		return
	}
	u.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.SavedPost{})
	utils.Success(c, gin.H{"saved": false})
}

// GetSavedPosts lists a user's bookmarked posts, newest bookmark first.
func (u *UserController) GetSavedPosts(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid user id")
		return
	}
	_, limit, offset := parsePagination(c.Query("page"), c.Query("limit"))

	var posts []models.Post
	err := u.db.
		Joins("JOIN saved_posts ON saved_posts.post_id = posts.id AND saved_posts.user_id = ?", id).
		Preload("Author").Preload("Category").
		Order("saved_posts.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to load saved posts")
		return
	}
	utils.Success(c, posts)
}

// GetTaggedPosts lists posts where the user is mentioned.
func (u *UserController) GetTaggedPosts(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid user id")
		return
	}
	_, limit, offset := parsePagination(c.Query("page"), c.Query("limit"))

	var posts []models.Post
	err := u.db.
		Joins("JOIN post_mentions ON post_mentions.post_id = posts.id AND post_mentions.user_id = ?", id).
		Preload("Author").Preload("Category").
		Order("posts.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to load tagged posts")
		return
	}
	utils.Success(c, posts)
}

// GetCommentsByUser lists a user's comments, newest first.
func (u *UserController) GetCommentsByUser(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid user id")
		return
	}
	_, limit, offset := parsePagination(c.Query("page"), c.Query("limit"))

	var comments []models.Comment
	err := u.db.Where("author_id = ?", id).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to load comments")
		return
	}
	utils.Success(c, comments)
}

// GetSuggestions returns accounts the caller does not follow yet, excluding
// themselves, most recently joined first.
func (u *UserController) GetSuggestions(c *gin.Context) {
	userID, _ := getUserID(c)
	_, limit, _ := parsePagination("", c.Query("limit"))
	if limit > 20 {
		limit = 20
	}

	var users []models.User
	err := u.db.
		Where("id <> ?", userID).
		Where("id NOT IN (?)", u.db.Model(&models.Follow{}).
			Select("followee_id").Where("follower_id = ?", userID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to load suggestions")
		return
	}
	utils.Success(c, users)
}

// GetModeratedCategories lists categories the user moderates.
func (u *UserController) GetModeratedCategories(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		utils.Error(c, http.StatusBadRequest, 40004, "invalid user id")
		return
	}

	var categories []models.Category
	err := u.db.
		Joins("JOIN category_members ON category_members.category_id = categories.id").
		Where("category_members.user_id = ? AND category_members.moderator = ?", id, true).
		Find(&categories).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to load categories")
		return
	}
	utils.Success(c, categories)
}
