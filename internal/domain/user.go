package domain

import "time"

// UserSummary is the slice of the externally owned user entity that the chat
// core needs for member and message enrichment.
type UserSummary struct {
	ID          int64
	Username    string
	DisplayName string
	AvatarRef   string
	Email       string
	CreatedAt   time.Time
}

func (u *UserSummary) Name() string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
