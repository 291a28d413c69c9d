package filtering

import (
	"go.uber.org/zap"

	"github.com/spigell/gig-matcher/internal/marketplace"
)

// Filter represents a single predicate applied to the roster.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Match(w *marketplace.Worker) bool
}

// Step describes the result of executing a filtering step.
type Step struct {
	Name    string
	Initial int
	Dropped int
	Left    int
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Steps builds the filter chain for c in its fixed evaluation order.
func Steps(c Criteria) []Filter {
	return []Filter{
		NewWorkType(c.WorkType),
		NewCategory(c.WorkType, c.GigCategory, c.ProjectCategory),
		NewUrgency(c.WorkType, c.Urgency),
		NewBudget(c.Budget),
		NewLocation(c.Location),
		NewBadges(c.Badges),
		NewQuery(c.Query),
	}
}

// Apply returns the workers of roster that satisfy every criterion, in roster order.
// The input roster is never modified.
func Apply(roster *marketplace.Roster, c Criteria) *marketplace.Roster {
	filtered, _ := Run(nil, Steps(c), roster)
	return filtered
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns a new roster
// together with per-step statistics. A nil logger disables logging.
func Run(logger *zap.Logger, steps []Filter, roster *marketplace.Roster) (*marketplace.Roster, []Step) {
	var items []*marketplace.Worker
	if roster != nil {
		items = roster.Items
	}

	current := make([]*marketplace.Worker, len(items))
	copy(current, items)

	stats := make([]Step, 0, len(steps))
	for _, step := range steps {
		if !step.IsEnabled() {
			if logger != nil {
				logger.Debug("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next := make([]*marketplace.Worker, 0, len(current))
		for _, w := range current {
			if w != nil && step.Match(w) {
				next = append(next, w)
			}
		}

		info := Step{
			Name:    step.Name(),
			Initial: len(current),
			Dropped: len(current) - len(next),
			Left:    len(next),
		}
		stats = append(stats, info)

		if logger != nil {
			logger.Info("filter step",
				zap.String("name", info.Name),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		current = next
	}

	return &marketplace.Roster{Items: current}, stats
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
