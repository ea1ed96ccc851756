package app

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"trivia-client/internal/domain"
)

// DefaultQuizSize is the number of questions kept after shuffling.
const DefaultQuizSize = 10

// State is the position of a quiz in its lifecycle.
type State int

const (
	StateLoading State = iota
	StateReady
	StateAnswering
	StateComplete
	// StateEmpty is terminal: the backend returned nothing to ask.
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateAnswering:
		return "answering"
	case StateComplete:
		return "complete"
	case StateEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

var errAlreadyLoaded = errors.New("quiz already loaded")

// QuizFlow walks one attempt from loading to complete. Answers are only
// appended; questions are never revisited.
type QuizFlow struct {
	id        string
	category  string
	subDomain string
	size      int
	rnd       *rand.Rand

	mu        sync.Mutex
	state     State
	questions []domain.Question
	answers   []domain.AnswerRecord
	index     int
	notice    string
}

// NewQuizFlow starts an attempt for category/subDomain. Both may be empty
// for a mixed random quiz.
func NewQuizFlow(category, subDomain string, size int) *QuizFlow {
	return newQuizFlowWithRand(category, subDomain, size, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newQuizFlowWithRand(category, subDomain string, size int, rnd *rand.Rand) *QuizFlow {
	if size <= 0 {
		size = DefaultQuizSize
	}
	return &QuizFlow{
		id:        uuid.NewString(),
		category:  category,
		subDomain: subDomain,
		size:      size,
		rnd:       rnd,
		state:     StateLoading,
	}
}

func (f *QuizFlow) ID() string        { return f.id }
func (f *QuizFlow) Category() string  { return f.category }
func (f *QuizFlow) SubDomain() string { return f.subDomain }

func (f *QuizFlow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Notice is a non-fatal message raised while starting the quiz.
func (f *QuizFlow) Notice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

func (f *QuizFlow) setNotice(msg string) {
	f.mu.Lock()
	f.notice = msg
	f.mu.Unlock()
}

// Load takes the fetched set once, shuffles it and keeps at most size items.
func (f *QuizFlow) Load(questions []domain.Question) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateLoading {
		return errAlreadyLoaded
	}
	if len(questions) == 0 {
		f.state = StateEmpty
		return domain.ErrNoQuestions
	}
	f.questions = shuffleWithLimit(questions, f.size, f.rnd)
	f.answers = make([]domain.AnswerRecord, 0, len(f.questions))
	f.state = StateReady
	return nil
}

// Total is the number of questions presented in this attempt.
func (f *QuizFlow) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.questions)
}

// Current returns the question awaiting an answer and its index.
func (f *QuizFlow) Current() (domain.Question, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case StateReady, StateAnswering:
		return cloneQuestion(f.questions[f.index]), f.index, nil
	case StateComplete:
		return domain.Question{}, f.index, domain.ErrQuizComplete
	default:
		return domain.Question{}, 0, domain.ErrQuizNotReady
	}
}

// Answer records option for the current question and advances. It reports
// whether the attempt is now complete.
func (f *QuizFlow) Answer(option string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case StateReady, StateAnswering:
	case StateComplete:
		return true, domain.ErrQuizComplete
	default:
		return false, domain.ErrQuizNotReady
	}

	q := f.questions[f.index]
	if !q.HasOption(option) {
		return false, domain.ErrInvalidOption
	}
	f.answers = append(f.answers, domain.AnswerRecord{Question: cloneQuestion(q), Answer: option})
	f.index++
	if f.index >= len(f.questions) {
		f.state = StateComplete
		return true, nil
	}
	f.state = StateAnswering
	return false, nil
}

// AnswerIndex answers with the option at position i of the current question.
func (f *QuizFlow) AnswerIndex(i int) (bool, error) {
	q, _, err := f.Current()
	if err != nil {
		return f.State() == StateComplete, err
	}
	if i < 0 || i >= len(q.Options) {
		return false, domain.ErrInvalidOption
	}
	return f.Answer(q.Options[i])
}

// Result copies the presented questions and recorded answers. It is only
// available once the attempt is complete.
func (f *QuizFlow) Result() (domain.QuizResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateComplete {
		return domain.QuizResult{}, domain.ErrQuizNotReady
	}
	out := domain.QuizResult{
		Questions: make([]domain.Question, len(f.questions)),
		Answers:   make([]domain.AnswerRecord, len(f.answers)),
	}
	for i, q := range f.questions {
		out.Questions[i] = cloneQuestion(q)
	}
	for i, a := range f.answers {
		out.Answers[i] = domain.AnswerRecord{Question: cloneQuestion(a.Question), Answer: a.Answer}
	}
	return out, nil
}

// shuffleWithLimit returns a shuffled copy truncated to limit (Fisher-Yates).
func shuffleWithLimit(questions []domain.Question, limit int, rnd *rand.Rand) []domain.Question {
	shuffled := make([]domain.Question, len(questions))
	for i, q := range questions {
		shuffled[i] = cloneQuestion(q)
	}
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	if limit <= 0 || limit > len(shuffled) {
		limit = len(shuffled)
	}
	return shuffled[:limit]
}

func cloneQuestion(q domain.Question) domain.Question {
	q.Options = append([]string(nil), q.Options...)
	return q
}
