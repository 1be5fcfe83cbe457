package common

import (
	"github.com/Freeeeeet/queue_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/queue_bot/internal/model"
	"github.com/Freeeeeet/queue_bot/internal/service"
)

// Ключи временных данных в StateManager
const (
	DataDraft      = "draft"
	DataHelping    = "helping"
	DataLoginEmail = "login_email"
)

// Draft форма записи в очередь, живёт между нажатиями кнопок
type Draft struct {
	SubjectID int64
	// EntryID > 0 если редактируется существующая запись
	EntryID   int64
	Selection *service.Selection
	Form      *service.Form

	// Сообщение с формой, чтобы обновить его после ввода текста
	ChatID    int64
	MessageID int
}

// Editing редактируется ли существующая запись
func (d *Draft) Editing() bool {
	return d.EntryID > 0
}

// Helping запись, которой помогает ассистент, и отметки упражнений
type Helping struct {
	SubjectID int64
	Entry     model.QueueEntry
	Room      *model.Room
	Message   string
	Checked   map[int]bool
	Exercises []model.Exercise
}

// GetDraft черновик пользователя или ErrNoDraft
func GetDraft(sm callbacktypes.StateManager, telegramID int64) (*Draft, error) {
	v, ok := sm.GetData(telegramID, DataDraft)
	if !ok {
		return nil, ErrNoDraft
	}
	draft, ok := v.(*Draft)
	if !ok || draft.Selection == nil {
		return nil, ErrNoDraft
	}
	return draft, nil
}

// SetDraft сохраняет черновик
func SetDraft(sm callbacktypes.StateManager, telegramID int64, draft *Draft) {
	sm.SetData(telegramID, DataDraft, draft)
}

// GetHelping текущая запись ассистента или ErrNoHelping
func GetHelping(sm callbacktypes.StateManager, telegramID int64) (*Helping, error) {
	v, ok := sm.GetData(telegramID, DataHelping)
	if !ok {
		return nil, ErrNoHelping
	}
	helping, ok := v.(*Helping)
	if !ok {
		return nil, ErrNoHelping
	}
	return helping, nil
}

// SetHelping сохраняет запись ассистента
func SetHelping(sm callbacktypes.StateManager, telegramID int64, helping *Helping) {
	sm.SetData(telegramID, DataHelping, helping)
}
