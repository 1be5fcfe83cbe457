package model

import (
	"strings"
	"time"
)

// User пользователь сервиса очередей
type User struct {
	ID        int64  `json:"userID"`
	RoleID    int    `json:"roleID"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FullName имя и фамилия
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Session контекст пользователя бота: вход в сервис и выбранный предмет
type Session struct {
	TelegramID        int64         `json:"telegram_id"`
	User              User          `json:"user"`
	Token             string        `json:"-"`
	TokenExpiresAt    *time.Time    `json:"token_expires_at"`
	SelectedSubjectID int64         `json:"selected_subject_id"`
	Roles             []SubjectRole `json:"roles"`
	Watching          bool          `json:"watching"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Expired истёк ли токен к моменту now
func (s *Session) Expired(now time.Time) bool {
	return s.TokenExpiresAt != nil && !now.Before(*s.TokenExpiresAt)
}

// IsTA является ли пользователь ассистентом в предмете
func (s *Session) IsTA(subjectID int64) bool {
	for _, r := range s.Roles {
		if r.SubjectID == subjectID {
			return r.IsTA()
		}
	}
	return false
}
