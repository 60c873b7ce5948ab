package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a play session does not exist or was discarded.
	ErrSessionNotFound = errors.New("play session not found")
	// ErrQuestionNotFound indicates a question ID is unknown.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAnswerNotFound indicates a submitted answer does not belong to the current question.
	ErrAnswerNotFound = errors.New("answer not found")
	// ErrChapterNotFound indicates a chapter ID is unknown.
	ErrChapterNotFound = errors.New("chapter not found")
	// ErrEmptySelection is returned when a session is started without any chapter.
	ErrEmptySelection = errors.New("select at least one chapter")
)
