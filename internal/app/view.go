package app

import (
	"chapter-quiz-service/internal/domain"
	"chapter-quiz-service/internal/play"
)

// AnswerView is an answer option as shown to the player. Correct is only set
// once the question is revealed.
type AnswerView struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct *bool  `json:"correct,omitempty"`
}

// QuestionView is the question at the cursor.
type QuestionView struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	ImageURL string            `json:"imageUrl,omitempty"`
	Chapter  domain.ChapterRef `json:"chapter"`
	Answers  []AnswerView      `json:"answers"`
}

// View is the read-only state handed to the presentation layer.
type View struct {
	SessionID string        `json:"sessionId"`
	Position  int           `json:"position"`
	Total     int           `json:"total"`
	Score     int           `json:"score"`
	Revealed  bool          `json:"revealed"`
	Complete  bool          `json:"complete"`
	Empty     bool          `json:"empty"`
	Question  *QuestionView `json:"question,omitempty"`
	Summary   *play.Summary `json:"summary,omitempty"`
}

func buildView(sessionID string, state *play.State) View {
	view := View{
		SessionID: sessionID,
		Position:  state.Cursor,
		Total:     len(state.Pool),
		Score:     state.Score,
		Revealed:  state.Revealed,
		Complete:  state.Complete(),
		Empty:     len(state.Pool) == 0,
	}

	if question, ok := state.Current(); ok {
		qv := &QuestionView{
			ID:       question.ID,
			Text:     question.Text,
			ImageURL: question.ImageURL,
			Chapter:  question.Chapter,
			Answers:  make([]AnswerView, 0, len(question.Answers)),
		}
		for _, a := range question.Answers {
			av := AnswerView{ID: a.ID, Text: a.Text}
			if state.Revealed {
				correct := a.Correct
				av.Correct = &correct
			}
			qv.Answers = append(qv.Answers, av)
		}
		view.Question = qv
	}

	if view.Complete && !view.Empty {
		summary := play.Summarize(state.Log, state.Pool)
		view.Summary = &summary
	}
	return view
}
