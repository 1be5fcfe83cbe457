package qsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"go.uber.org/zap"
)

type subjectDTO struct {
	SubjectID          int64           `json:"subjectID"`
	SubjectName        string          `json:"subjectName"`
	SubjectCode        json.RawMessage `json:"subjectCode"`
	SubjectActive      int             `json:"subjectActive"`
	SubjectQueueStatus int             `json:"subjectQueueStatus"`
	QueueMeta          struct {
		Notice string `json:"notice"`
	} `json:"queueMeta"`
	UserQueueElementID int64 `json:"userQueueElementID"`
}

// toModel преобразует ответ API в модель; subjectCode бывает и строкой, и числом
func (d *subjectDTO) toModel() model.Subject {
	code := strings.TrimSpace(string(d.SubjectCode))
	if strings.HasPrefix(code, `"`) {
		var s string
		if err := json.Unmarshal(d.SubjectCode, &s); err == nil {
			code = s
		}
	}
	if code == "null" {
		code = ""
	}

	return model.Subject{
		ID:          d.SubjectID,
		Name:        d.SubjectName,
		Code:        code,
		Active:      d.SubjectActive,
		QueueStatus: model.QueueStatus(d.SubjectQueueStatus),
		Notice:      d.QueueMeta.Notice,
		UserEntryID: d.UserQueueElementID,
	}
}

// GetSubject получает предмет вместе со статусом очереди и записью текущего пользователя
func (c *Client) GetSubject(ctx context.Context, token string, subjectID int64) (*model.Subject, error) {
	path := fmt.Sprintf("/subjects/%d", subjectID)

	resp, err := c.send(ctx, request{method: http.MethodGet, path: path, token: token, cookie: true})
	if err != nil {
		return nil, fmt.Errorf("get subject: %w", err)
	}

	var dto subjectDTO
	if err := decode(resp, path, &dto); err != nil {
		return nil, fmt.Errorf("get subject: %w", err)
	}
	subject := dto.toModel()
	return &subject, nil
}

// GetSubjectsForUser возвращает только активные предметы пользователя
func (c *Client) GetSubjectsForUser(ctx context.Context, token string, userID int64) ([]model.Subject, error) {
	path := fmt.Sprintf("/users/%d/subjects", userID)

	var body struct {
		Subjects []subjectDTO `json:"subjects"`
	}
	if err := c.getJSON(ctx, path, token, &body); err != nil {
		return nil, fmt.Errorf("get subjects for user: %w", err)
	}

	subjects := make([]model.Subject, 0, len(body.Subjects))
	for i := range body.Subjects {
		subject := body.Subjects[i].toModel()
		if subject.IsActive() {
			subjects = append(subjects, subject)
		}
	}
	return subjects, nil
}

// GetSubjectRoles роли пользователя по предметам.
// Ответ - [{key: subjectID, value: role}]; нечисловые пары пропускаются.
func (c *Client) GetSubjectRoles(ctx context.Context, token string, userID int64) ([]model.SubjectRole, error) {
	path := fmt.Sprintf("/users/%d/subjects/roles", userID)

	var pairs []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := c.getJSON(ctx, path, token, &pairs); err != nil {
		return nil, fmt.Errorf("get subject roles: %w", err)
	}

	roles := make([]model.SubjectRole, 0, len(pairs))
	for _, p := range pairs {
		subjectID, err := strconv.ParseInt(p.Key, 10, 64)
		if err != nil {
			c.logger.Warn("Skipping malformed subject role", zap.String("key", p.Key), zap.Error(err))
			continue
		}
		role, err := strconv.Atoi(p.Value)
		if err != nil {
			c.logger.Warn("Skipping malformed subject role", zap.String("value", p.Value), zap.Error(err))
			continue
		}
		roles = append(roles, model.SubjectRole{SubjectID: subjectID, Role: role})
	}
	return roles, nil
}

// GetSubjectExercises все упражнения предмета
func (c *Client) GetSubjectExercises(ctx context.Context, token string, subjectID int64) ([]model.Exercise, error) {
	path := fmt.Sprintf("/subjects/%d/exercises", subjectID)

	var body struct {
		Exercises []model.Exercise `json:"exercises"`
	}
	if err := c.getJSON(ctx, path, token, &body); err != nil {
		return nil, fmt.Errorf("get subject exercises: %w", err)
	}
	if body.Exercises == nil {
		return []model.Exercise{}, nil
	}
	return body.Exercises, nil
}

// GetAvailableUsers студенты предмета, которых ещё нет в очереди; nil если таких нет (204)
func (c *Client) GetAvailableUsers(ctx context.Context, token string, subjectID int64) ([]model.User, error) {
	path := fmt.Sprintf("/subjects/%d/users/available", subjectID)

	resp, err := c.send(ctx, request{method: http.MethodGet, path: path, token: token})
	if err != nil {
		return nil, fmt.Errorf("get available users: %w", err)
	}
	if resp.empty() {
		return nil, nil
	}

	var body struct {
		People []struct {
			UserID    int64  `json:"userID"`
			RoleID    int    `json:"roleID"`
			Email     string `json:"email"`
			FirstName string `json:"personFirstName"`
			LastName  string `json:"personLastName"`
		} `json:"people"`
	}
	if err := decode(resp, path, &body); err != nil {
		return nil, fmt.Errorf("get available users: %w", err)
	}

	users := make([]model.User, 0, len(body.People))
	for _, p := range body.People {
		users = append(users, model.User{
			ID:        p.UserID,
			RoleID:    p.RoleID,
			Email:     p.Email,
			FirstName: p.FirstName,
			LastName:  p.LastName,
		})
	}
	return users, nil
}
