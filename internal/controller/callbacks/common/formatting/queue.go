package formatting

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/Freeeeeet/queue_bot/internal/model"
)

// StatusDisplay представляет отображение статуса очереди
type StatusDisplay struct {
	Emoji string
	Text  string
}

// GetQueueStatusDisplay возвращает emoji и текст для статуса очереди
func GetQueueStatusDisplay(status model.QueueStatus) StatusDisplay {
	displays := map[model.QueueStatus]StatusDisplay{
		model.QueueStatusClosed: {"🔴", "закрыта"},
		model.QueueStatusOpen:   {"🟢", "открыта"},
		model.QueueStatusPaused: {"⏸", "на паузе"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return StatusDisplay{"❓", "неизвестно"}
}

// Escape экранирует пользовательский текст для ParseModeHTML
func Escape(s string) string {
	return html.EscapeString(s)
}

// SubjectTitle "<b>КОД</b> Название"
func SubjectTitle(subject *model.Subject) string {
	if subject.Code == "" {
		return "<b>" + Escape(subject.Name) + "</b>"
	}
	return fmt.Sprintf("<b>%s</b> %s", Escape(subject.Code), Escape(subject.Name))
}

// RoomText место записи: комната и стол или удалённо
func RoomText(roomID int64, desk int, room *model.Room) string {
	if roomID == model.RemoteRoomID || desk == 0 {
		return "🏠 Удалённо"
	}
	name := fmt.Sprintf("комната #%d", roomID)
	if room != nil {
		name = room.DisplayName()
	}
	return fmt.Sprintf("📍 %s, стол %d", Escape(name), desk)
}

// MembersText имена участников, сокращённые до 20 символов
func MembersText(members []model.QueueMember) string {
	if len(members) == 0 {
		return "—"
	}
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, Escape(model.FormatName(m.FirstName, m.LastName)))
	}
	return strings.Join(names, ", ")
}

// ExercisesText номера упражнений через запятую
func ExercisesText(numbers []int) string {
	if len(numbers) == 0 {
		return "—"
	}
	parts := make([]string, 0, len(numbers))
	for _, n := range numbers {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ", ")
}

// ModeEmoji 🙋 для помощи, ✅ для сдачи
func ModeEmoji(help bool) string {
	if help {
		return "🙋"
	}
	return "✅"
}

// EntryButtonText короткая подпись записи для кнопки в списке ассистента
func EntryButtonText(pos int, entry *model.QueueEntry, taID int64) string {
	name := "—"
	if len(entry.Members) > 0 {
		name = model.FormatName(entry.Members[0].FirstName, entry.Members[0].LastName)
		if len(entry.Members) > 1 {
			name += fmt.Sprintf(" +%d", len(entry.Members)-1)
		}
	}

	marker := ""
	switch {
	case entry.IsAssisted() && entry.Teacher == taID:
		marker = " 👉"
	case entry.IsAssisted():
		marker = " ⏳"
	}
	return fmt.Sprintf("%d. %s %s%s", pos, ModeEmoji(entry.Help), name, marker)
}

// PositionText позиция студента в очереди
func PositionText(position int, assisted bool) string {
	if assisted {
		return fmt.Sprintf("🙌 Ваша позиция: <b>%d</b>, вам уже помогают", position)
	}
	if position == 1 {
		return "🥇 Вы <b>первый</b> в очереди"
	}
	return fmt.Sprintf("🔢 Ваша позиция: <b>%d</b>", position)
}
