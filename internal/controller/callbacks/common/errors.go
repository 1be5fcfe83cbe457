package common

import (
	"errors"

	"github.com/Freeeeeet/queue_bot/internal/qsapi"
	"github.com/Freeeeeet/queue_bot/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrNoDraft       = errors.New("no entry draft in progress")
	ErrNoHelping     = errors.New("not assisting any entry")
	ErrEntryGone     = errors.New("entry is no longer in the queue")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrNotLoggedIn):
		return "🔑 Вы не вошли в систему очередей. Используйте /login"
	case errors.Is(err, service.ErrSessionExpired), errors.Is(err, qsapi.ErrUnauthorized):
		return "🔑 Сессия истекла. Войдите заново: /login"
	case errors.Is(err, service.ErrNoSubjectSelected):
		return "📚 Сначала выберите предмет: /subjects"
	case errors.Is(err, service.ErrNotTA):
		return "❌ Эта функция доступна только ассистентам предмета"
	case errors.Is(err, service.ErrNoExercisesChecked):
		return "❌ Отметьте хотя бы одно упражнение"
	case errors.Is(err, service.ErrExercisesUnavailable):
		return "❌ Не удалось загрузить упражнения предмета"
	case errors.Is(err, service.ErrNoSession):
		return "❌ Нет активной сессии"
	case errors.Is(err, service.ErrNoSubject):
		return "❌ Предмет не выбран"
	case errors.Is(err, service.ErrNoLocation):
		return "📍 Выберите кампус, здание, комнату и стол или отметьте «Удалённо»"
	case errors.Is(err, service.ErrNoMode):
		return "❌ Выберите: помощь или сдача"
	case errors.Is(err, service.ErrAlreadyAssisted):
		return "⛔ Этой записи уже помогает другой ассистент"
	case errors.Is(err, service.ErrInconsistentState):
		return "⚠️ Вы в очереди, но запись не найдена. Обновите экран"
	case errors.Is(err, service.ErrUnknownQueueStatus):
		return "⚠️ Неизвестный статус очереди, ничего не изменено"
	case errors.Is(err, service.ErrNotInQueue):
		return "❌ Вы не в очереди"
	case errors.Is(err, service.ErrMessageNotSaved):
		return "⚠️ Запись сохранена, но сообщение не сохранилось"
	case errors.Is(err, qsapi.ErrNotFound), errors.Is(err, ErrEntryGone):
		return "❌ Запись не найдена, возможно её уже удалили"
	case errors.Is(err, ErrNoDraft):
		return "❌ Форма устарела. Откройте очередь заново: /queue"
	case errors.Is(err, ErrNoHelping):
		return "❌ Вы сейчас никому не помогаете"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	default:
		return "❌ Произошла ошибка"
	}
}
