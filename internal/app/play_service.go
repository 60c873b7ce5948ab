package app

import (
	"context"
	"log"
	"math/rand"
	"time"

	"chapter-quiz-service/internal/domain"
	"chapter-quiz-service/internal/play"
	"github.com/google/uuid"
)

// SessionRepository abstracts where live play sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuestionRepository returns the question pool for a chapter selection.
type QuestionRepository interface {
	GetPool(ctx context.Context, sel domain.Selection) ([]domain.Question, error)
}

// Catalog lists what a player can choose from before a session starts.
type Catalog interface {
	LoadChapters(ctx context.Context) ([]domain.Chapter, error)
	LoadCategories(ctx context.Context) ([]domain.Category, error)
}

// AnswerHistory keeps the most recent answer state per user and question.
type AnswerHistory interface {
	RecordAnswer(ctx context.Context, answer domain.RecentAnswer) error
	RecentAnswers(ctx context.Context, userID string) ([]domain.RecentAnswer, error)
	ResetChapter(ctx context.Context, userID, chapterID string) error
}

// Options tune a PlayService.
type Options struct {
	Policy        play.Policy
	RecordTimeout time.Duration
	// Seed fixes the shuffle source; zero seeds from the clock.
	Seed int64
}

// PlayService contains the play use cases.
type PlayService struct {
	sessions  SessionRepository
	questions QuestionRepository
	catalog   Catalog
	history   AnswerHistory
	opts      Options
	now       func() time.Time
	seeds     *lockedSource
}

func NewPlayService(sessions SessionRepository, questions QuestionRepository, catalog Catalog, history AnswerHistory, opts Options) *PlayService {
	if opts.RecordTimeout <= 0 {
		opts.RecordTimeout = 5 * time.Second
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &PlayService{
		sessions:  sessions,
		questions: questions,
		catalog:   catalog,
		history:   history,
		opts:      opts,
		now:       time.Now,
		seeds:     newLockedSource(seed),
	}
}

// Start fetches the pool for sel and opens a new session for userID.
func (s *PlayService) Start(ctx context.Context, userID string, sel domain.Selection) (View, error) {
	if len(sel.ChapterNumbers) == 0 {
		return View{}, domain.ErrEmptySelection
	}
	pool, err := s.questions.GetPool(ctx, sel)
	if err != nil {
		return View{}, err
	}

	rnd := rand.New(rand.NewSource(s.seeds.Int63()))
	session := NewSession(uuid.NewString(), userID, play.Start(pool, rnd, s.opts.Policy), rnd)
	s.sessions.Put(session)
	return session.View(), nil
}

// SubmitAnswer applies the answer with answerID to the session's current question.
// Answers that arrive when no transition is possible are ignored.
func (s *PlayService) SubmitAnswer(ctx context.Context, sessionID, answerID string) (play.Outcome, View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return play.Outcome{}, View{}, domain.ErrSessionNotFound
	}

	outcome, question, view, err := session.submit(answerID)
	if err != nil {
		return play.Outcome{}, View{}, err
	}
	if outcome.Applied {
		s.report(ctx, session.UserID(), question, outcome.Correct)
	}
	return outcome, view, nil
}

// Advance leaves the reveal step of the session.
func (s *PlayService) Advance(_ context.Context, sessionID string) (View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	return session.advance(), nil
}

// Reset restarts the session, optionally with only the wrongly answered questions.
func (s *PlayService) Reset(_ context.Context, sessionID string, wrongOnly bool) (View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	return session.reset(wrongOnly), nil
}

// View returns the current presentation state of a session.
func (s *PlayService) View(_ context.Context, sessionID string) (View, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return View{}, domain.ErrSessionNotFound
	}
	return session.View(), nil
}

// End discards a session; nothing was reserved so there is nothing to clean up.
func (s *PlayService) End(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

// report hands the outcome to the answer history without waiting for it.
func (s *PlayService) report(ctx context.Context, userID string, question domain.Question, correct bool) {
	if s.history == nil || userID == "" {
		return
	}
	record := domain.RecentAnswer{
		UserID:     userID,
		QuestionID: question.ID,
		ChapterID:  question.Chapter.ID,
		Correct:    correct,
		AnsweredAt: s.now(),
	}
	go func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.RecordTimeout)
		defer cancel()
		if err := s.history.RecordAnswer(rctx, record); err != nil {
			log.Printf("record answer %s for %s: %v", record.QuestionID, record.UserID, err)
		}
	}()
}
