package services

import (
	"strconv"

	"gorm.io/gorm"

	"github.com/kovaikural/kural/models"
	"github.com/kovaikural/kural/utils"
)

// Notifier persists notifications and pushes them to connected clients.
// Delivery is best effort: a failed insert is logged, never surfaced to the
// operation that triggered it, and never rolls anything back.
type Notifier struct {
	db  *gorm.DB
	hub *Hub
}

// NewNotifier wires a Notifier.
func NewNotifier(db *gorm.DB, hub *Hub) *Notifier {
	return &Notifier{db: db, hub: hub}
}

// Notify creates one notification and publishes it to the recipient's stream.
func (n *Notifier) Notify(recipientID uint, actorID *uint, notifType, entityType string, entityID uint, message string) {
	notif := models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        notifType,
		EntityType:  entityType,
		EntityID:    entityID,
		Message:     message,
	}
	if err := n.db.Create(&notif).Error; err != nil {
		utils.Sugar.Errorw("notification insert failed",
			"recipient", recipientID, "type", notifType, "error", err)
		return
	}

	if actorID != nil {
		var actor models.User
		if err := n.db.First(&actor, *actorID).Error; err == nil {
			notif.Actor = &actor
		}
	}

	utils.CacheDelete(unreadCountKey(recipientID))
	n.hub.Publish(recipientID, Event{Name: "notification", Data: &notif})
}

// NotifyMany fans one event out to several recipients, skipping excluded IDs
// (typically the actor). Returns how many notifications were attempted.
func (n *Notifier) NotifyMany(recipientIDs []uint, actorID *uint, notifType, entityType string, entityID uint, message string) int {
	sent := 0
	for _, id := range RecipientsExcluding(recipientIDs, actorID) {
		n.Notify(id, actorID, notifType, entityType, entityID, message)
		sent++
	}
	return sent
}

// RecipientsExcluding deduplicates recipients and drops the excluded user.
func RecipientsExcluding(recipientIDs []uint, exclude *uint) []uint {
	out := []uint{}
	for _, id := range utils.UniqueUint(recipientIDs) {
		if exclude != nil && id == *exclude {
			continue
		}
		out = append(out, id)
	}
	return out
}

func unreadCountKey(userID uint) string {
	return "notif:unread:" + strconv.FormatUint(uint64(userID), 10)
}

// UnreadCountCacheKey exposes the cache key used for a user's unread counter.
func UnreadCountCacheKey(userID uint) string {
	return unreadCountKey(userID)
}
