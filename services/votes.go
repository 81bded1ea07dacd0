package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kovaikural/kural/models"
)

// Vote directions accepted on the wire.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

var ErrBadDirection = errors.New("direction must be \"up\" or \"down\"")

// VoteChange describes the outcome of applying a vote direction to the
// caller's current vote value on a target.
type VoteChange struct {
	// Value the vote row should end with; 0 means the row is removed.
	Value int
	// Fresh is true when the user had no vote on the target before.
	Fresh bool
	// Removed is true when the same direction was sent twice (toggle off).
	Removed bool
	// Switched is true when the vote flipped between up and down.
	Switched bool
}

// ChangeFor computes the vote transition. current is the user's existing vote
// value on the target (0 when none). Sending the direction the user already
// holds toggles the vote off.
func ChangeFor(current int, direction string) (VoteChange, error) {
	var want int
	switch direction {
	case DirectionUp:
		want = 1
	case DirectionDown:
		want = -1
	default:
		return VoteChange{}, ErrBadDirection
	}

	switch current {
	case 0:
		return VoteChange{Value: want, Fresh: true}, nil
	case want:
		return VoteChange{Value: 0, Removed: true}, nil
	default:
		return VoteChange{Value: want, Switched: true}, nil
	}
}

// VoteService applies votes transactionally and recomputes net scores.
type VoteService struct {
	db       *gorm.DB
	notifier *Notifier
}

// NewVoteService wires a VoteService.
func NewVoteService(db *gorm.DB, notifier *Notifier) *VoteService {
	return &VoteService{db: db, notifier: notifier}
}

// VotePost applies a vote direction to a post and returns the updated post.
// A fresh upvote or a switch to upvote notifies the author (unless voting on
// one's own post).
func (s *VoteService) VotePost(userID, postID uint, direction string) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		return nil, err
	}

	var change VoteChange
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		current := 0
		found := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			First(&existing).Error
		if found == nil {
			current = existing.Value
		} else if !errors.Is(found, gorm.ErrRecordNotFound) {
			return found
		}

		var cerr error
		change, cerr = ChangeFor(current, direction)
		if cerr != nil {
			return cerr
		}

		switch {
		case change.Removed:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case change.Fresh:
			vote := models.Vote{UserID: userID, PostID: &postID, Value: change.Value}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		default:
			if err := tx.Model(&existing).Update("value", change.Value).Error; err != nil {
				return err
			}
		}

		return recomputePostScore(tx, &post)
	})
	if err != nil {
		return nil, err
	}

	if change.Value == 1 && !change.Removed && post.AuthorID != userID {
		s.notifier.Notify(post.AuthorID, &userID, models.NotificationTypeVote,
			models.EntityTypePost, post.ID, "upvoted your post")
	}
	return &post, nil
}

// VoteComment applies a vote direction to a comment and returns it updated.
func (s *VoteService) VoteComment(userID, commentID uint, direction string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.First(&comment, commentID).Error; err != nil {
		return nil, err
	}

	var change VoteChange
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		current := 0
		found := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND comment_id = ?", userID, commentID).
			First(&existing).Error
		if found == nil {
			current = existing.Value
		} else if !errors.Is(found, gorm.ErrRecordNotFound) {
			return found
		}

		var cerr error
		change, cerr = ChangeFor(current, direction)
		if cerr != nil {
			return cerr
		}

		switch {
		case change.Removed:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case change.Fresh:
			vote := models.Vote{UserID: userID, CommentID: &commentID, Value: change.Value}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		default:
			if err := tx.Model(&existing).Update("value", change.Value).Error; err != nil {
				return err
			}
		}

		return recomputeCommentScore(tx, &comment)
	})
	if err != nil {
		return nil, err
	}

	if change.Value == 1 && !change.Removed && comment.AuthorID != userID {
		s.notifier.Notify(comment.AuthorID, &userID, models.NotificationTypeVote,
			models.EntityTypeComment, comment.ID, "upvoted your comment")
	}
	return &comment, nil
}

// recomputePostScore rewrites the post's net score from the votes table.
func recomputePostScore(tx *gorm.DB, post *models.Post) error {
	var sum int64
	if err := tx.Model(&models.Vote{}).
		Where("post_id = ?", post.ID).
		Select("COALESCE(SUM(value), 0)").
		Scan(&sum).Error; err != nil {
		return err
	}
	post.Votes = int(sum)
	return tx.Model(&models.Post{}).Where("id = ?", post.ID).Update("votes", post.Votes).Error
}

func recomputeCommentScore(tx *gorm.DB, comment *models.Comment) error {
	var sum int64
	if err := tx.Model(&models.Vote{}).
		Where("comment_id = ?", comment.ID).
		Select("COALESCE(SUM(value), 0)").
		Scan(&sum).Error; err != nil {
		return err
	}
	comment.Votes = int(sum)
	return tx.Model(&models.Comment{}).Where("id = ?", comment.ID).Update("votes", comment.Votes).Error
}
