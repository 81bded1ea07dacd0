package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kovaikural/kural/models"
	"github.com/kovaikural/kural/services"
	"github.com/kovaikural/kural/utils"
)

// NotificationController handles the inbox and the live stream.
type NotificationController struct {
	db  *gorm.DB
	hub *services.Hub
}

// NewNotificationController creates a NotificationController.
func NewNotificationController(db *gorm.DB, hub *services.Hub) *NotificationController {
	return &NotificationController{db: db, hub: hub}
}

// List returns the caller's notifications, unread first then newest first.
// ?unread=true limits to unread ones.
func (n *NotificationController) List(c *gin.Context) {
	userID, _ := getUserID(c)
	page, limit, offset := parsePagination(c.Query("page"), c.Query("limit"))

	q := n.db.Model(&models.Notification{}).Where("recipient_id = ?", userID)
	if c.Query("unread") == "true" {
		q = q.Where("`read` = ?", false)
	}

	var total int64
	q.Count(&total)

	var notifications []models.Notification
	err := q.Preload("Actor").
		Order("`read` ASC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to load notifications")
		return
	}

	utils.Success(c, gin.H{
		"notifications": notifications,
		"total":         total,
		"page":          page,
		"limit":         limit,
	})
}

// UnreadCount returns the number of unread notifications, cached briefly.
func (n *NotificationController) UnreadCount(c *gin.Context) {
	userID, _ := getUserID(c)

	key := services.UnreadCountCacheKey(userID)
	if b, ok := utils.CacheGetBytes(key); ok {
		if count, err := strconv.ParseInt(string(b), 10, 64); err == nil {
			utils.Success(c, gin.H{"count": count})
			return
		}
	}

	var count int64
	err := n.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND `read` = ?", userID, false).
		Count(&count).Error
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to count notifications")
		return
	}

	utils.CacheSetBytes(key, []byte(strconv.FormatInt(count, 10)), 30*time.Second)
	utils.Success(c, gin.H{"count": count})
}

type markReadRequest struct {
	// ID of the notification to mark; zero or absent marks all unread.
	ID uint `json:"id"`
}

// MarkRead marks one notification (scoped to the caller) or all unread ones.
func (n *NotificationController) MarkRead(c *gin.Context) {
	userID, _ := getUserID(c)
	var req markReadRequest
	_ = c.ShouldBindJSON(&req)

	q := n.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND `read` = ?", userID, false)
	if req.ID != 0 {
		q = q.Where("id = ?", req.ID)
	}
	res := q.Update("read", true)
	if res.Error != nil {
		utils.Error(c, http.StatusInternalServerError, 50000, "failed to mark notifications")
		return
	}

	utils.CacheDelete(services.UnreadCountCacheKey(userID))
	utils.Success(c, gin.H{"marked": res.RowsAffected})
}

// Stream pushes notifications to the client over SSE until it disconnects.
// Sends a named "connected" event first so clients can confirm the handshake.
func (n *NotificationController) Stream(c *gin.Context) {
	userID, _ := getUserID(c)

	ch, cancel := n.hub.Subscribe(userID)
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("connected", gin.H{"user_id": userID})
	c.Writer.Flush()

	heartbeat := time.NewTicker(25 * time.Second)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			payload, err := json.Marshal(ev.Data)
			if err != nil {
				return true
			}
			c.SSEvent(ev.Name, string(payload))
			return true
		case <-heartbeat.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
