package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Вход в сервис очередей
	StateLoginEmail    UserState = "login_email"
	StateLoginPassword UserState = "login_password"

	// Ассистент меняет объявление очереди
	StateEditNotice UserState = "edit_notice"

	// Студент вводит сообщение к записи
	StateEntryMessage UserState = "entry_message"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}
