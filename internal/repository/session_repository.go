package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository сессии пользователей бота в сервисе очередей
type SessionRepository struct {
	*base.Repository
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{Repository: base.NewRepository(pool)}
}

const sessionColumns = `
	telegram_id, user_id, email, first_name, last_name, role_id, token, token_expires_at,
	selected_subject_id, subject_roles, watching, created_at, updated_at
`

// GetByTelegramID получает сессию по Telegram ID; nil если пользователь не входил
func (r *SessionRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE telegram_id = $1`

	sess, err := scanSession(r.QueryRow(ctx, query, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by telegram id: %w", err)
	}
	return sess, nil
}

// Save создаёт или обновляет сессию
func (r *SessionRepository) Save(ctx context.Context, sess *model.Session) error {
	roles := sess.Roles
	if roles == nil {
		roles = []model.SubjectRole{}
	}
	rolesJSON, err := json.Marshal(roles)
	if err != nil {
		return fmt.Errorf("marshal subject roles: %w", err)
	}

	query := `
		INSERT INTO sessions (telegram_id, user_id, email, first_name, last_name, role_id, token,
			token_expires_at, selected_subject_id, subject_roles, watching)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (telegram_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			role_id = EXCLUDED.role_id,
			token = EXCLUDED.token,
			token_expires_at = EXCLUDED.token_expires_at,
			selected_subject_id = EXCLUDED.selected_subject_id,
			subject_roles = EXCLUDED.subject_roles,
			watching = EXCLUDED.watching,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err = r.QueryRow(
		ctx, query,
		sess.TelegramID,
		sess.User.ID,
		sess.User.Email,
		sess.User.FirstName,
		sess.User.LastName,
		sess.User.RoleID,
		sess.Token,
		sess.TokenExpiresAt,
		sess.SelectedSubjectID,
		rolesJSON,
		sess.Watching,
	).Scan(&sess.CreatedAt, &sess.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete удаляет сессию
func (r *SessionRepository) Delete(ctx context.Context, telegramID int64) error {
	if _, err := r.ExecAffected(ctx, `DELETE FROM sessions WHERE telegram_id = $1`, telegramID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ListWatching сессии с включёнными уведомлениями и выбранным предметом
func (r *SessionRepository) ListWatching(ctx context.Context) ([]*model.Session, error) {
	query := `SELECT ` + sessionColumns + `
		FROM sessions
		WHERE watching = TRUE AND selected_subject_id > 0
		ORDER BY telegram_id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list watching sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

func scanSession(row pgx.Row) (*model.Session, error) {
	var (
		sess      model.Session
		expiresAt *time.Time
		rolesJSON []byte
	)
	err := row.Scan(
		&sess.TelegramID,
		&sess.User.ID,
		&sess.User.Email,
		&sess.User.FirstName,
		&sess.User.LastName,
		&sess.User.RoleID,
		&sess.Token,
		&expiresAt,
		&sess.SelectedSubjectID,
		&rolesJSON,
		&sess.Watching,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sess.TokenExpiresAt = expiresAt
	if len(rolesJSON) > 0 {
		if err := json.Unmarshal(rolesJSON, &sess.Roles); err != nil {
			return nil, fmt.Errorf("unmarshal subject roles: %w", err)
		}
	}
	return &sess, nil
}
