package play

import (
	"fmt"
	"math/rand"

	"chapter-quiz-service/internal/domain"
)

// Policy decides what happens after a correct answer.
type Policy int

const (
	// AdvanceOnCorrect moves straight to the next question on a correct answer
	// and only pauses on reveal after a wrong one.
	AdvanceOnCorrect Policy = iota
	// RevealAlways pauses on reveal after every answer.
	RevealAlways
)

// ParsePolicy maps a config value to a Policy. Empty selects AdvanceOnCorrect.
func ParsePolicy(raw string) (Policy, error) {
	switch raw {
	case "", "advance-on-correct":
		return AdvanceOnCorrect, nil
	case "reveal-always":
		return RevealAlways, nil
	default:
		return AdvanceOnCorrect, fmt.Errorf("unknown reveal policy %q", raw)
	}
}

// ResultEntry records how one question was answered.
type ResultEntry struct {
	QuestionID         string `json:"questionId"`
	ChosenAnswer       string `json:"answer"`
	Correct            bool   `json:"isCorrect"`
	ChapterNumber      int    `json:"chapterNumber"`
	ChapterDescription string `json:"chapterDescription"`
}

// Outcome describes the effect of a Submit call.
type Outcome struct {
	Applied         bool   `json:"applied"`
	Correct         bool   `json:"correct"`
	QuestionID      string `json:"questionId,omitempty"`
	CorrectAnswerID string `json:"correctAnswerId,omitempty"`
	Complete        bool   `json:"complete"`
}

// State is the state of one play-through. It is owned by a single player and
// is not safe for concurrent use; callers serialise access.
type State struct {
	Pool     []domain.Question
	Cursor   int
	Score    int
	Revealed bool
	Log      []ResultEntry
	Wrong    []domain.Question

	origin []domain.Question
	policy Policy
}

// Start builds a fresh session over pool. Question order and each question's
// answers are shuffled independently; pool itself is not modified.
func Start(pool []domain.Question, rnd *rand.Rand, policy Policy) *State {
	return start(pool, pool, rnd, policy)
}

func start(pool, origin []domain.Question, rnd *rand.Rand, policy Policy) *State {
	shuffled := Shuffle(rnd, pool)
	for i := range shuffled {
		shuffled[i].Answers = Shuffle(rnd, shuffled[i].Answers)
	}
	return &State{
		Pool:   shuffled,
		Log:    []ResultEntry{},
		Wrong:  []domain.Question{},
		origin: origin,
		policy: policy,
	}
}

// Policy reports the reveal policy the state was started with.
func (s *State) Policy() Policy {
	return s.policy
}

// Complete reports whether every question has been passed.
func (s *State) Complete() bool {
	return s.Cursor >= len(s.Pool)
}

// Current returns the question at the cursor.
func (s *State) Current() (domain.Question, bool) {
	if s.Complete() {
		return domain.Question{}, false
	}
	return s.Pool[s.Cursor], true
}

// Submit applies the player's answer to the current question. It is a no-op
// once the session is complete or while the previous answer is revealed.
func (s *State) Submit(answer domain.Answer) Outcome {
	question, ok := s.Current()
	if !ok || s.Revealed {
		return Outcome{Complete: s.Complete()}
	}

	s.Log = append(s.Log, ResultEntry{
		QuestionID:         question.ID,
		ChosenAnswer:       answer.Text,
		Correct:            answer.Correct,
		ChapterNumber:      question.Chapter.Number,
		ChapterDescription: question.Chapter.Description,
	})

	if answer.Correct {
		s.Score++
		s.Wrong = removeQuestion(s.Wrong, question.ID)
		if s.policy == RevealAlways {
			s.Revealed = true
		} else {
			s.Cursor++
		}
	} else {
		s.Wrong = append(s.Wrong, question)
		s.Revealed = true
	}

	out := Outcome{
		Applied:    true,
		Correct:    answer.Correct,
		QuestionID: question.ID,
		Complete:   s.Complete(),
	}
	if correct, ok := question.CorrectAnswer(); ok {
		out.CorrectAnswerID = correct.ID
	}
	return out
}

// Advance leaves the reveal step and moves to the next question. It reports
// false and changes nothing when no answer is revealed.
func (s *State) Advance() bool {
	if !s.Revealed {
		return false
	}
	s.Revealed = false
	s.Cursor++
	return true
}

// Reset starts over: with only the wrongly answered questions when
// wrongOnly is set, otherwise with the full pool the first session began with.
func (s *State) Reset(rnd *rand.Rand, wrongOnly bool) *State {
	if wrongOnly {
		return start(WrongPool(s.Log, s.Pool), s.origin, rnd, s.policy)
	}
	return start(s.origin, s.origin, rnd, s.policy)
}

func removeQuestion(questions []domain.Question, id string) []domain.Question {
	out := questions[:0]
	for _, q := range questions {
		if q.ID != id {
			out = append(out, q)
		}
	}
	return out
}
