package model

// EntryStatus статус записи в очереди
type EntryStatus int

const (
	EntryStatusIdle     EntryStatus = 0
	EntryStatusAssisted EntryStatus = 1
)

// RemoteRoomID комната "работаю из дома", никогда не запрашивается у API
const RemoteRoomID int64 = 0

// QueueMember участник записи в очереди
type QueueMember struct {
	UserID    int64  `json:"userID"`
	FirstName string `json:"personFirstName"`
	LastName  string `json:"personLastName"`
	Email     string `json:"personEmail"`
	RoleID    int    `json:"roleID"`
	Enabled   bool   `json:"enabled"`
}

// QueueEntry запись (студент или группа) в очереди предмета
type QueueEntry struct {
	ID        int64         `json:"queueElementID"`
	SubjectID int64         `json:"subjectID"`
	OwnerID   int64         `json:"ownerID"`
	RoomID    int64         `json:"roomID"`
	Desk      int           `json:"queueElementDesk"`
	Help      bool          `json:"queueElementHelp"`
	Status    EntryStatus   `json:"status"`
	Teacher   int64         `json:"teacher"` // 0 - никто не помогает
	Members   []QueueMember `json:"members"`
	Exercises []int         `json:"exercises"`
	StartTime string        `json:"queueElementStartTime"`

	// Message заполняется отдельно из /queue/messages
	Message string `json:"-"`
}

// IsRemote работает ли запись удалённо
func (e *QueueEntry) IsRemote() bool {
	return e.RoomID == RemoteRoomID || e.Desk == 0
}

// IsAssisted помогает ли кто-то этой записи
func (e *QueueEntry) IsAssisted() bool {
	return e.Status == EntryStatusAssisted
}

// AssistedByOther помогает ли записи другой ассистент
func (e *QueueEntry) AssistedByOther(taID int64) bool {
	return e.IsAssisted() && e.Teacher != taID
}

// ModeText "Help" или "Approval"
func (e *QueueEntry) ModeText() string {
	if e.Help {
		return "Help"
	}
	return "Approval"
}

// EntryMode режим записи: помощь или сдача упражнений
type EntryMode int

const (
	ModeUnset EntryMode = iota
	ModeHelp
	ModeApproval
)

// HelpFlag значение queueElementHelp для API (1 - помощь, 0 - сдача)
func (m EntryMode) HelpFlag() int {
	if m == ModeHelp {
		return 1
	}
	return 0
}

// NewEntry тело POST /subjects/{id}/queue
type NewEntry struct {
	SubjectID int64   `json:"subjectID"`
	RoomID    int64   `json:"roomID"`
	Desk      int     `json:"queueElementDesk"`
	Help      int     `json:"queueElementHelp"`
	Exercises []int64 `json:"exercises"`
	Members   []User  `json:"members"`
}
