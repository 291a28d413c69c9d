package voice

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/gig-matcher/internal/filtering"
	"github.com/spigell/gig-matcher/internal/marketplace"
	"github.com/spigell/gig-matcher/internal/scoring"
)

const notUnderstoodMsg = "Sorry, I did not catch a skill, a budget or a kind of work. Try \"find a plumber under 50\"."

// Recognizer produces transcripts of what the user said, lazily and in order.
type Recognizer interface {
	Recognize(ctx context.Context) iter.Seq[string]
}

// Speaker reads text back to the user.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Interpreter is a fallback for transcripts the keyword parser does not understand.
type Interpreter interface {
	Interpret(ctx context.Context, transcript string) (Query, error)
}

// Result is the outcome of one transcript.
type Result struct {
	Query    Query
	Criteria filtering.Criteria
	Matches  []scoring.Match
	Reply    string
}

// ErrNoRecognizer is returned by Run when the session has no transcript source.
var ErrNoRecognizer = errors.New("voice session has no recognizer")

type Session struct {
	roster      *marketplace.Roster
	criteria    filtering.Criteria
	recognizer  Recognizer
	speaker     Speaker
	interpreter Interpreter
	logger      *zap.Logger
}

// NewSession creates a session over roster starting from initial criteria.
// A session without a recognizer can still Handle transcripts directly.
func NewSession(roster *marketplace.Roster, initial filtering.Criteria, recognizer Recognizer, speaker Speaker, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		roster:     roster,
		criteria:   initial.Clone(),
		recognizer: recognizer,
		speaker:    speaker,
		logger:     logger,
	}
}

// WithInterpreter sets the fallback used when keyword parsing finds nothing.
func (s *Session) WithInterpreter(i Interpreter) *Session {
	s.interpreter = i
	return s
}

// Criteria returns the criteria accumulated so far.
func (s *Session) Criteria() filtering.Criteria {
	return s.criteria.Clone()
}

// Run consumes transcripts until the recognizer is exhausted or ctx is done.
// Criteria accumulate across transcripts, like filters set one by one.
func (s *Session) Run(ctx context.Context) ([]Result, error) {
	if s.recognizer == nil {
		return nil, ErrNoRecognizer
	}

	var results []Result

	for transcript := range s.recognizer.Recognize(ctx) {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := s.Handle(ctx, transcript)
		results = append(results, result)

		if s.speaker == nil {
			continue
		}
		if err := s.speaker.Speak(ctx, result.Reply); err != nil {
			return results, fmt.Errorf("speak: %w", err)
		}
	}

	return results, ctx.Err()
}

// Handle processes a single transcript.
func (s *Session) Handle(ctx context.Context, transcript string) Result {
	q := Parse(transcript)
	if !q.Matched() && s.interpreter != nil {
		interpreted, err := s.interpreter.Interpret(ctx, transcript)
		switch {
		case err != nil:
			s.logger.Warn("interpreting transcript failed", zap.Error(err))
		default:
			interpreted.Transcript = transcript
			q = interpreted
		}
	}

	s.logger.Debug("voice query",
		zap.String("transcript", transcript),
		zap.String("skill", q.Skill),
		zap.String("budget", q.Budget),
		zap.String("work_type", string(q.WorkType)),
	)

	if !q.Matched() {
		return Result{Query: q, Criteria: s.criteria.Clone(), Reply: notUnderstoodMsg}
	}

	s.criteria = q.Apply(s.criteria)
	filtered, _ := filtering.Run(s.logger, filtering.Steps(s.criteria), s.roster)
	matches := scoring.Annotate(filtered, s.criteria)

	return Result{
		Query:    q,
		Criteria: s.criteria.Clone(),
		Matches:  matches,
		Reply:    Summarize(q, matches),
	}
}

// Summarize builds the sentence read back after a search.
func Summarize(q Query, matches []scoring.Match) string {
	var b strings.Builder

	switch len(matches) {
	case 0:
		b.WriteString("I could not find any workers")
	case 1:
		b.WriteString("I found 1 worker")
	default:
		fmt.Fprintf(&b, "I found %d workers", len(matches))
	}

	if q.Skill != "" {
		fmt.Fprintf(&b, " for %s", q.Skill)
	}
	if q.Budget != "" {
		if bucket, ok := filtering.LookupBudget(q.Budget); ok {
			fmt.Fprintf(&b, " at %s", bucket)
		}
	}
	b.WriteString(".")

	if len(matches) > 0 {
		top := scoring.SortByScore(matches)[0]
		fmt.Fprintf(&b, " Top match: %s, %d%% match.", top.Worker.Name, top.Score)
	}

	return b.String()
}
