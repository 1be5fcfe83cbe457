package qsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Freeeeeet/queue_bot/internal/model"
	"go.uber.org/zap"
)

// Пути для PATCH операций
const (
	PathStatus    = "/status"
	PathNotice    = "/notice"
	PathTeacher   = "/teacher"
	PathHelp      = "/help"
	PathRoom      = "/room"
	PathDesk      = "/desk"
	PathExercises = "/exercises"
	PathMembers   = "/members"
)

// Patch операция JSON Patch; Value == nil кодируется как null
type Patch struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

// Replace создаёт операцию replace
func Replace(path string, value interface{}) Patch {
	return Patch{Op: "replace", Path: path, Value: value}
}

// GetQueue очередь предмета в порядке сервера (порядок = позиция)
func (c *Client) GetQueue(ctx context.Context, token string, subjectID int64) ([]model.QueueEntry, error) {
	path := fmt.Sprintf("/subjects/%d/queue", subjectID)

	var body struct {
		Entries []model.QueueEntry `json:"queueelements"`
	}
	if err := c.getJSON(ctx, path, token, &body); err != nil {
		return nil, fmt.Errorf("get queue: %w", err)
	}
	if body.Entries == nil {
		return []model.QueueEntry{}, nil
	}
	return body.Entries, nil
}

// PatchQueue меняет статус или объявление очереди
func (c *Client) PatchQueue(ctx context.Context, token string, subjectID int64, patch Patch) error {
	path := fmt.Sprintf("/subjects/%d/queue", subjectID)

	_, err := c.send(ctx, request{method: http.MethodPatch, path: path, token: token, body: patch})
	if err != nil {
		return fmt.Errorf("patch queue %s: %w", patch.Path, err)
	}
	return nil
}

// AddEntry создаёт запись в очереди и возвращает её ID
func (c *Client) AddEntry(ctx context.Context, token string, subjectID int64, entry model.NewEntry) (int64, error) {
	path := fmt.Sprintf("/subjects/%d/queue", subjectID)

	resp, err := c.send(ctx, request{method: http.MethodPost, path: path, token: token, body: entry})
	if err != nil {
		return 0, fmt.Errorf("add entry: %w", err)
	}

	var body struct {
		ID int64 `json:"integer"`
	}
	if err := decode(resp, path, &body); err != nil {
		return 0, fmt.Errorf("add entry: %w", err)
	}
	return body.ID, nil
}

// GetEntry одна запись очереди
func (c *Client) GetEntry(ctx context.Context, token string, subjectID, entryID int64) (*model.QueueEntry, error) {
	path := fmt.Sprintf("/subjects/%d/queue/%d", subjectID, entryID)

	var entry model.QueueEntry
	if err := c.getJSON(ctx, path, token, &entry); err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return &entry, nil
}

// DeleteEntry удаляет запись (выход студента или отклонение ассистентом)
func (c *Client) DeleteEntry(ctx context.Context, token string, subjectID, entryID int64) error {
	path := fmt.Sprintf("/subjects/%d/queue/%d", subjectID, entryID)

	if _, err := c.send(ctx, request{method: http.MethodDelete, path: path, token: token}); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// PatchEntry меняет одно поле записи
func (c *Client) PatchEntry(ctx context.Context, token string, subjectID, entryID int64, patch Patch) error {
	path := fmt.Sprintf("/subjects/%d/queue/%d", subjectID, entryID)

	_, err := c.send(ctx, request{method: http.MethodPatch, path: path, token: token, body: patch})
	if err != nil {
		return fmt.Errorf("patch entry %s: %w", patch.Path, err)
	}
	return nil
}

// GetEntryMessage сообщение записи для ассистента
func (c *Client) GetEntryMessage(ctx context.Context, token string, subjectID, entryID int64) (string, error) {
	path := fmt.Sprintf("/subjects/%d/queue/%d/message", subjectID, entryID)

	resp, err := c.send(ctx, request{method: http.MethodGet, path: path, token: token})
	if err != nil {
		return "", fmt.Errorf("get entry message: %w", err)
	}
	if resp.empty() {
		return "", nil
	}

	// Обычно тело - JSON строка, но встречается и голый текст
	var message string
	if err := json.Unmarshal(resp.body, &message); err != nil {
		return strings.TrimSpace(string(resp.body)), nil
	}
	return message, nil
}

// SetEntryMessage устанавливает сообщение записи
func (c *Client) SetEntryMessage(ctx context.Context, token string, subjectID, entryID int64, message string) error {
	path := fmt.Sprintf("/subjects/%d/queue/%d/message", subjectID, entryID)

	_, err := c.send(ctx, request{method: http.MethodPost, path: path, token: token, body: message})
	if err != nil {
		return fmt.Errorf("set entry message: %w", err)
	}
	return nil
}

// GetEntryMessages все сообщения очереди по ID записи.
// 204 и нераспознаваемый JSON дают пустую карту, а не ошибку.
func (c *Client) GetEntryMessages(ctx context.Context, token string, subjectID int64) (map[int64]string, error) {
	path := fmt.Sprintf("/subjects/%d/queue/messages", subjectID)

	resp, err := c.send(ctx, request{method: http.MethodGet, path: path, token: token})
	if err != nil {
		return nil, fmt.Errorf("get entry messages: %w", err)
	}

	messages := make(map[int64]string)
	if resp.empty() {
		return messages, nil
	}

	var pairs []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	if err := json.Unmarshal(resp.body, &pairs); err != nil {
		c.logger.Warn("Malformed queue messages, ignoring",
			zap.Int64("subject_id", subjectID),
			zap.Error(err))
		return messages, nil
	}

	for _, p := range pairs {
		var entryID int64
		if _, err := fmt.Sscanf(p.Key, "%d", &entryID); err != nil {
			continue
		}
		messages[entryID] = p.Value
	}
	return messages, nil
}

// ApproveEntry засчитывает упражнения записи
func (c *Client) ApproveEntry(ctx context.Context, token string, subjectID, entryID int64, exercises []model.Exercise) error {
	path := fmt.Sprintf("/subjects/%d/queue/%d/approve", subjectID, entryID)

	body := struct {
		Exercises []model.Exercise `json:"exercises"`
	}{Exercises: exercises}

	if _, err := c.send(ctx, request{method: http.MethodPost, path: path, token: token, body: body}); err != nil {
		return fmt.Errorf("approve entry: %w", err)
	}
	return nil
}
