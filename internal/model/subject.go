package model

// QueueStatus состояние очереди предмета
type QueueStatus int

const (
	QueueStatusClosed QueueStatus = 0
	QueueStatusOpen   QueueStatus = 1
	QueueStatusPaused QueueStatus = 2
)

// Valid проверяет что статус один из известных
func (s QueueStatus) Valid() bool {
	return s == QueueStatusClosed || s == QueueStatusOpen || s == QueueStatusPaused
}

// PatchValue возвращает значение для PATCH /subjects/{id}/queue
func (s QueueStatus) PatchValue() string {
	switch s {
	case QueueStatusClosed:
		return "0"
	case QueueStatusOpen:
		return "1"
	case QueueStatusPaused:
		return "2"
	default:
		return ""
	}
}

// String возвращает текст статуса для отображения
func (s QueueStatus) String() string {
	switch s {
	case QueueStatusClosed:
		return "closed"
	case QueueStatusOpen:
		return "open"
	case QueueStatusPaused:
		return "paused"
	default:
		return ""
	}
}

// Subject предмет с метаданными очереди
type Subject struct {
	ID          int64       `json:"subjectID"`
	Name        string      `json:"subjectName"`
	Code        string      `json:"subjectCode"`
	Active      int         `json:"subjectActive"`
	QueueStatus QueueStatus `json:"subjectQueueStatus"`
	Notice      string      `json:"-"`
	// UserEntryID > 0 только если у текущего пользователя есть запись в очереди
	UserEntryID int64 `json:"userQueueElementID"`
}

// IsActive активен ли предмет (неактивные не показываются)
func (s *Subject) IsActive() bool {
	return s.Active == 1
}

// InQueue есть ли у текущего пользователя запись в очереди
func (s *Subject) InQueue() bool {
	return s.UserEntryID > 0
}

// SubjectRole роль пользователя в предмете
type SubjectRole struct {
	SubjectID int64 `json:"subjectID"`
	Role      int   `json:"role"`
}

// TARoleThreshold роли меньше этого значения считаются ассистентами
const TARoleThreshold = 3

// IsTA является ли роль ролью ассистента
func (r SubjectRole) IsTA() bool {
	return r.Role < TARoleThreshold
}
