package filtering

import (
	"fmt"
	"strings"

	"github.com/spigell/gig-matcher/internal/marketplace"
)

const allSelectedMsg = "all selected"

// step carries the bookkeeping shared by every filter.
type step struct {
	name     string
	disabled bool
	reason   string
	details  map[string]string
}

// newStep returns an enabled step with empty details.
func newStep(name string) step {
	return step{name: name, details: map[string]string{}}
}

func (s *step) Name() string { return s.name }

func (s *step) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *step) IsEnabled() bool { return !s.disabled }

func (s *step) Status() Status {
	return Status{Name: s.name, Enabled: !s.disabled, Reason: s.reason, Details: s.details}
}

func unrecognized(value string) string {
	return fmt.Sprintf("unrecognized value %q treated as all", value)
}

type workTypeFilter struct {
	step
	workType marketplace.WorkType
}

// NewWorkType creates a filter that keeps workers of the selected work type.
func NewWorkType(value string) Filter {
	f := &workTypeFilter{step: newStep("work_type")}
	if isAll(value) {
		f.Disable(allSelectedMsg)
		return f
	}

	wt, ok := marketplace.ParseWorkType(value)
	if !ok {
		f.Disable(unrecognized(value))
		return f
	}

	f.workType = wt
	f.details["work_type"] = string(wt)
	return f
}

func (f *workTypeFilter) Match(w *marketplace.Worker) bool {
	return w.WorkType == f.workType
}

type categoryFilter struct {
	step
	category string
}

// NewCategory creates a filter on the category of the selected work type
// namespace. Gig categories only apply to gigs and project categories only to projects.
func NewCategory(workType, gigCategory, projectCategory string) Filter {
	f := &categoryFilter{step: newStep("category")}

	wt, ok := marketplace.ParseWorkType(workType)

	var value string
	var options []string
	switch {
	case ok && wt == marketplace.WorkTypeGigs:
		value, options = gigCategory, GigCategories
	case ok && wt == marketplace.WorkTypeProjects:
		value, options = projectCategory, ProjectCategories
	default:
		f.Disable("category applies only to gigs or projects")
		return f
	}

	if isAll(value) {
		f.Disable(allSelectedMsg)
		return f
	}
	if !contains(options, value) {
		f.Disable(unrecognized(value))
		return f
	}

	f.category = normalize(value)
	f.details["namespace"] = string(wt)
	f.details["category"] = f.category
	return f
}

func (f *categoryFilter) Match(w *marketplace.Worker) bool {
	return strings.EqualFold(w.Category, f.category)
}

type urgencyFilter struct {
	step
	urgency string
}

// NewUrgency creates a filter on gig urgency. It is inactive for any work type but gigs.
func NewUrgency(workType, value string) Filter {
	f := &urgencyFilter{step: newStep("urgency")}

	if wt, ok := marketplace.ParseWorkType(workType); !ok || wt != marketplace.WorkTypeGigs {
		f.Disable("urgency applies only to gigs")
		return f
	}
	if isAll(value) {
		f.Disable(allSelectedMsg)
		return f
	}
	if !contains(Urgencies, value) {
		f.Disable(unrecognized(value))
		return f
	}

	f.urgency = normalize(value)
	f.details["urgency"] = f.urgency
	return f
}

func (f *urgencyFilter) Match(w *marketplace.Worker) bool {
	return strings.EqualFold(w.Urgency, f.urgency)
}

type budgetFilter struct {
	step
	bucket Bucket
}

// NewBudget creates a filter that keeps workers whose hourly rate falls in the bucket.
func NewBudget(value string) Filter {
	f := &budgetFilter{step: newStep("budget")}
	if isAll(value) {
		f.Disable(allSelectedMsg)
		return f
	}

	bucket, ok := LookupBudget(value)
	if !ok {
		f.Disable(unrecognized(value))
		return f
	}

	f.bucket = bucket
	f.details["bucket"] = bucket.Name
	f.details["range"] = bucket.String()
	return f
}

func (f *budgetFilter) Match(w *marketplace.Worker) bool {
	return f.bucket.Contains(w.HourlyRate)
}

type locationFilter struct {
	step
}

// NewLocation creates the location filter. Only "remote" narrows the roster;
// radius selections are accepted but there is no geodata to apply them to.
func NewLocation(value string) Filter {
	f := &locationFilter{step: newStep("location")}
	switch {
	case isAll(value):
		f.Disable(allSelectedMsg)
	case normalize(value) == LocationRemote:
		f.details["location"] = marketplace.RemoteLocation
	case contains(RadiusLocations, value):
		f.Disable(fmt.Sprintf("radius %q is not applied", normalize(value)))
	default:
		f.Disable(unrecognized(value))
	}
	return f
}

func (f *locationFilter) Match(w *marketplace.Worker) bool {
	return w.IsRemote()
}

type badgesFilter struct {
	step
	badges []marketplace.Badge
}

// NewBadges creates a filter that keeps workers holding at least one of the selected badges.
func NewBadges(selected []marketplace.Badge) Filter {
	f := &badgesFilter{step: newStep("badges")}

	seen := make(map[marketplace.Badge]bool, len(selected))
	names := make([]string, 0, len(selected))
	for _, b := range selected {
		if seen[b] {
			continue
		}
		seen[b] = true
		f.badges = append(f.badges, b)
		names = append(names, string(b))
	}

	if len(f.badges) == 0 {
		f.Disable("no badges selected")
		return f
	}

	f.details["badges"] = strings.Join(names, ",")
	return f
}

func (f *badgesFilter) Match(w *marketplace.Worker) bool {
	for _, b := range f.badges {
		if w.HasBadge(b) {
			return true
		}
	}
	return false
}

type queryFilter struct {
	step
	query string
}

// NewQuery creates a case-insensitive substring filter over skills, title and name.
func NewQuery(query string) Filter {
	f := &queryFilter{step: newStep("query")}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		f.Disable("empty query")
		return f
	}

	f.query = q
	f.details["query"] = q
	return f
}

func (f *queryFilter) Match(w *marketplace.Worker) bool {
	return MatchesQuery(w, f.query)
}

// MatchesQuery reports whether any skill, the title or the name of w contains
// q, ignoring case. An empty query matches nothing.
func MatchesQuery(w *marketplace.Worker, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return false
	}
	return SkillMatches(w, q) ||
		strings.Contains(strings.ToLower(w.Title), q) ||
		strings.Contains(strings.ToLower(w.Name), q)
}

// SkillMatches reports whether any skill of w contains q, ignoring case.
func SkillMatches(w *marketplace.Worker, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return false
	}
	for _, skill := range w.Skills {
		if strings.Contains(strings.ToLower(skill), q) {
			return true
		}
	}
	return false
}
