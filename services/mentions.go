package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/kovaikural/kural/models"
	"github.com/kovaikural/kural/utils"
)

// MentionList accepts the mention field in any of the shapes clients send:
// a JSON array of ids or handles, a comma separated string, or absent.
type MentionList []string

// UnmarshalJSON implements the tolerant decoding.
func (m *MentionList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*m = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
				continue
			}
			var n json.Number
			if err := json.Unmarshal(item, &n); err == nil {
				out = append(out, n.String())
			}
		}
		*m = out
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*m = out
	return nil
}

// ResolveMentions maps mention tokens to existing user IDs. Numeric tokens are
// treated as user IDs, everything else as handles (with or without a leading
// "@"). Unknown tokens are skipped, duplicates collapsed.
func ResolveMentions(db *gorm.DB, mentions MentionList) ([]uint, error) {
	if len(mentions) == 0 {
		return nil, nil
	}

	ids := []uint{}
	handles := []string{}
	for _, token := range mentions {
		if n, err := strconv.ParseUint(token, 10, 64); err == nil {
			ids = append(ids, uint(n))
			continue
		}
		handles = append(handles, strings.ToLower(strings.TrimPrefix(token, "@")))
	}

	resolved := []uint{}
	if len(ids) > 0 {
		var found []uint
		if err := db.Model(&models.User{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
			return nil, err
		}
		resolved = append(resolved, found...)
	}
	if len(handles) > 0 {
		var found []uint
		if err := db.Model(&models.User{}).Where("handle IN ?", handles).Pluck("id", &found).Error; err != nil {
			return nil, err
		}
		resolved = append(resolved, found...)
	}
	return utils.UniqueUint(resolved), nil
}
