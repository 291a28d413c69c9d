package filtering

import (
	"slices"
	"strings"

	"github.com/spigell/gig-matcher/internal/marketplace"
)

// All is the selector value that disables a filter.
const All = "all"

// Criteria is the combined search state. It is a value: every helper returns a
// modified copy and never touches the receiver.
type Criteria struct {
	WorkType        string              `mapstructure:"work-type" json:"workType"`
	GigCategory     string              `mapstructure:"gig-category" json:"gigCategory"`
	ProjectCategory string              `mapstructure:"project-category" json:"projectCategory"`
	Urgency         string              `mapstructure:"urgency" json:"urgency"`
	Budget          string              `mapstructure:"budget" json:"budget"`
	Location        string              `mapstructure:"location" json:"location"`
	Query           string              `mapstructure:"query" json:"query"`
	Badges          []marketplace.Badge `mapstructure:"badges" json:"badges"`
}

// DefaultCriteria returns criteria that select every worker.
func DefaultCriteria() Criteria {
	return Criteria{
		WorkType:        All,
		GigCategory:     All,
		ProjectCategory: All,
		Urgency:         All,
		Budget:          All,
		Location:        All,
	}
}

// Clone returns a deep copy so callers can change badges without aliasing.
func (c Criteria) Clone() Criteria {
	c.Badges = slices.Clone(c.Badges)
	return c
}

// WithWorkType returns a copy with the work type selector replaced.
func (c Criteria) WithWorkType(wt string) Criteria {
	c = c.Clone()
	c.WorkType = wt
	return c
}

// WithBudget returns a copy with the budget bucket replaced.
func (c Criteria) WithBudget(budget string) Criteria {
	c = c.Clone()
	c.Budget = budget
	return c
}

// WithQuery returns a copy with the free-text query replaced.
func (c Criteria) WithQuery(q string) Criteria {
	c = c.Clone()
	c.Query = q
	return c
}

// ToggleBadge adds b to the selection or removes it when already selected.
func (c Criteria) ToggleBadge(b marketplace.Badge) Criteria {
	c = c.Clone()
	if idx := slices.Index(c.Badges, b); idx >= 0 {
		c.Badges = slices.Delete(c.Badges, idx, idx+1)
		return c
	}
	c.Badges = append(c.Badges, b)
	return c
}

// Equal reports whether c and other select the same workers field by field.
// A nil and an empty badge selection are equal.
func (c Criteria) Equal(other Criteria) bool {
	return c.WorkType == other.WorkType &&
		c.GigCategory == other.GigCategory &&
		c.ProjectCategory == other.ProjectCategory &&
		c.Urgency == other.Urgency &&
		c.Budget == other.Budget &&
		c.Location == other.Location &&
		c.Query == other.Query &&
		slices.Equal(c.Badges, other.Badges)
}

// ResolvedWorkType returns the selected work type, or false when the
// selector is "all" or not recognised.
func (c Criteria) ResolvedWorkType() (marketplace.WorkType, bool) {
	if isAll(c.WorkType) {
		return "", false
	}
	return marketplace.ParseWorkType(c.WorkType)
}

// IsIdentity reports whether the criteria select every worker.
func (c Criteria) IsIdentity() bool {
	for _, step := range Steps(c) {
		if step.IsEnabled() {
			return false
		}
	}
	return true
}

func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, All)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
