package service

import "errors"

// Ошибки сессии
var (
	ErrNotLoggedIn       = errors.New("not logged in")
	ErrSessionExpired    = errors.New("session expired")
	ErrNoSubjectSelected = errors.New("no subject selected")
	ErrNotTA             = errors.New("user is not a teaching assistant in this subject")
)

// Ошибки валидации записи в очередь, проверяются в этом порядке
var (
	ErrNoExercisesChecked   = errors.New("no exercises checked")
	ErrExercisesUnavailable = errors.New("subject exercises not loaded")
	ErrNoSession            = errors.New("no user session")
	ErrNoSubject            = errors.New("no subject")
	ErrNoLocation           = errors.New("location not fully selected")
	ErrNoMode               = errors.New("help or approval not chosen")
)

// Ошибки состояния очереди
var (
	ErrAlreadyAssisted    = errors.New("entry is already being assisted by someone else")
	ErrInconsistentState  = errors.New("in queue according to subject but entry is missing from queue")
	ErrUnknownQueueStatus = errors.New("unknown queue status")
	ErrLeaveCancelled     = errors.New("leave cancelled")
	ErrNotInQueue         = errors.New("not in queue")
	ErrMessageNotSaved    = errors.New("entry created but message was not saved")
)
