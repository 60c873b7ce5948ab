package app

import (
	"math/rand"
	"sync"

	"chapter-quiz-service/internal/domain"
	"chapter-quiz-service/internal/play"
)

// Session is one player's in-memory play-through.
type Session struct {
	id     string
	userID string
	rnd    *rand.Rand

	mu    sync.Mutex
	state *play.State
}

// NewSession wraps an already started state; infrastructure and tests use it to seed sessions.
func NewSession(id, userID string, state *play.State, rnd *rand.Rand) *Session {
	return &Session{
		id:     id,
		userID: userID,
		rnd:    rnd,
		state:  state,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) UserID() string {
	return s.userID
}

// View returns the presentation snapshot of the session.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) submit(answerID string) (play.Outcome, domain.Question, View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	question, ok := s.state.Current()
	if !ok || s.state.Revealed {
		return play.Outcome{Complete: s.state.Complete()}, domain.Question{}, s.viewLocked(), nil
	}

	var answer *domain.Answer
	for i := range question.Answers {
		if question.Answers[i].ID == answerID {
			answer = &question.Answers[i]
			break
		}
	}
	if answer == nil {
		return play.Outcome{}, domain.Question{}, View{}, domain.ErrAnswerNotFound
	}

	outcome := s.state.Submit(*answer)
	return outcome, question, s.viewLocked(), nil
}

func (s *Session) advance() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Advance()
	return s.viewLocked()
}

func (s *Session) reset(wrongOnly bool) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.Reset(s.rnd, wrongOnly)
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	return buildView(s.id, s.state)
}
