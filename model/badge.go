// model/badge.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// BadgeCriteria is the typed unlock condition stored on a badge. Type is the
// discriminant; only the fields for that type are meaningful. The evaluator
// is a closed switch over Type — new criteria mean new cases, not string
// dispatch.
type BadgeCriteria struct {
	Type string `json:"type"`

	// streak
	Days int `json:"days,omitempty"`

	// accuracy
	Percentage   float64 `json:"percentage,omitempty"`
	MinQuestions int     `json:"min_questions,omitempty"`

	// quiz_count, subject_master
	Count    int  `json:"count,omitempty"`
	Lifetime bool `json:"lifetime,omitempty"`

	// subject_master
	SubjectID string `json:"subject_id,omitempty"`
}

func (c BadgeCriteria) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (c *BadgeCriteria) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*c = BadgeCriteria{}
		return nil
	default:
		return errors.New("unsupported type for BadgeCriteria")
	}

	if len(data) == 0 {
		*c = BadgeCriteria{}
		return nil
	}
	return json.Unmarshal(data, c)
}

type Badge struct {
	ID             string        `json:"id" gorm:"primaryKey"`
	Name           string        `json:"name" gorm:"not null"`
	Description    string        `json:"description"`
	IconURL        string        `json:"icon_url"`
	UnlockCriteria BadgeCriteria `json:"unlock_criteria" gorm:"type:text"`
	XPReward       int           `json:"xp_reward" gorm:"default:0"`
	IsActive       bool          `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// UserBadge is monotonic: once UnlockedAt is set it is never cleared and the
// badge is never re-evaluated for that user.
type UserBadge struct {
	ID                 string     `json:"id" gorm:"primaryKey"`
	UserID             string     `json:"user_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	BadgeID            string     `json:"badge_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	UnlockedAt         *time.Time `json:"unlocked_at"`
	ProgressPercentage float64    `json:"progress_percentage" gorm:"default:0"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Relationship
	Badge Badge `json:"badge" gorm:"foreignKey:BadgeID"`
}
