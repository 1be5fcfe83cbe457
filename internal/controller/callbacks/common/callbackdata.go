package common

// ========================
// Callback Data Patterns
// ========================
// Префиксы с ":" продолжаются числовым ID, например "subj:12", "j:c:3"

// Общие
const (
	Noop         = "noop"
	BackToQueue  = "back_to_queue"
	RefreshQueue = "queue_refresh"
	ShowSubjects = "show_subjects"
	SelectSubj   = "subj:"
)

// Студент: форма записи в очередь
const (
	JoinStart    = "j:start"
	JoinExercise = "j:ex:"
	JoinRemote   = "j:remote"
	JoinCampuses = "j:campuses"
	JoinCampus   = "j:c:"
	JoinBuilding = "j:b:"
	JoinRoom     = "j:r:"
	JoinTable    = "j:t:"
	JoinMembers  = "j:members"
	JoinMember   = "j:m:"
	JoinMessage  = "j:msg"
	JoinHelp     = "j:mode:help"
	JoinApproval = "j:mode:appr"
	JoinForm     = "j:form"
	JoinCancel   = "j:cancel"
)

// Студент: своя запись
const (
	EditEntry = "s:edit"
	Leave     = "s:leave"
	LeaveYes  = "s:leave:yes"
	LeaveNo   = "s:leave:no"
	WatchOn   = "s:watch:on"
	WatchOff  = "s:watch:off"
)

// Ассистент
const (
	ToggleQueue  = "t:toggle"
	PauseQueue   = "t:pause"
	EditNotice   = "t:notice"
	StartHelping = "t:e:"

	HelpExercise   = "t:h:ex:"
	HelpPhoto      = "t:h:photo:"
	HelpRoom       = "t:h:room"
	HelpView       = "t:h:view"
	HelpApprove    = "t:h:approve"
	HelpApproveYes = "t:h:approve:yes"
	HelpStop       = "t:h:stop"
	HelpReject     = "t:h:reject"
	HelpRejectYes  = "t:h:reject:yes"
)
