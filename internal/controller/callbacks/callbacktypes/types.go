package callbacktypes

import (
	"github.com/Freeeeeet/queue_bot/internal/service"
	"go.uber.org/zap"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

// Состояния, в которые переводят callback handlers; значения совпадают с state.UserState
const (
	StateNone         UserState = ""
	StateEditNotice   UserState = "edit_notice"
	StateEntryMessage UserState = "entry_message"
)

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	ClearState(telegramID int64)
	GetState(telegramID int64) UserState
	SetState(telegramID int64, state UserState)
	SetData(telegramID int64, key string, value interface{})
	GetData(telegramID int64, key string) (interface{}, bool)
	DeleteData(telegramID int64, key string)
}

// Handler содержит общие зависимости для всех обработчиков
type Handler struct {
	Sessions    *service.SessionService
	Membership  *service.MembershipService
	QueueStatus *service.QueueStatusService
	Entries     *service.EntryBuilder
	Locations   *service.LocationService
	Assistance  *service.AssistanceService
	QueueView   *service.QueueViewService

	StateManager StateManager
	Logger       *zap.Logger
}
