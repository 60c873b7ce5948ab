package domain

import "time"

// Category is an administrator-defined label used to filter chapters.
type Category struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Hidden bool   `json:"hidden"`
}

// Chapter groups questions under a display number and description.
type Chapter struct {
	ID          string   `json:"id"`
	Number      int      `json:"number"`
	Description string   `json:"description"`
	CategoryIDs []string `json:"categoryIds,omitempty"`
}

// ChapterRef is the chapter label carried by every question.
type ChapterRef struct {
	ID          string `json:"id"`
	Number      int    `json:"number"`
	Description string `json:"description"`
}

// Answer is one option of a question; exactly one per question is correct.
type Answer struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question models a multiple-choice question with three answers.
type Question struct {
	ID       string     `json:"id"`
	Text     string     `json:"text"`
	ImageURL string     `json:"imageUrl,omitempty"`
	Chapter  ChapterRef `json:"chapter"`
	Answers  []Answer   `json:"answers"`
}

// CorrectAnswer returns the answer flagged as correct.
func (q Question) CorrectAnswer() (Answer, bool) {
	for _, a := range q.Answers {
		if a.Correct {
			return a, true
		}
	}
	return Answer{}, false
}

// Selection is the player's chapter/category choice before a session starts.
type Selection struct {
	ChapterNumbers []int    `json:"chapters"`
	CategoryIDs    []string `json:"categories,omitempty"`
}

// RecentAnswer is the most recent outcome a user had on a question.
type RecentAnswer struct {
	UserID     string    `json:"userId"`
	QuestionID string    `json:"questionId"`
	ChapterID  string    `json:"chapterId"`
	Correct    bool      `json:"correct"`
	AnsweredAt time.Time `json:"answeredAt"`
}

// ChapterScore summarises a user's recent answers for one chapter.
type ChapterScore struct {
	Chapter       Chapter `json:"chapter"`
	UserID        string  `json:"userId"`
	QuestionCount int     `json:"questionsCount"`
	CorrectCount  int     `json:"correctCount"`
	Percent       int     `json:"chapterScoreInPercent"`
}
