package filtering

import (
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/gig-matcher/internal/marketplace"
)

func testRoster() *marketplace.Roster {
	return &marketplace.Roster{
		Items: []*marketplace.Worker{
			{
				ID: "sarah", Name: "Sarah Chen", Title: "Full-Stack Developer", Rating: 4.9, HourlyRate: 85,
				Location: "San Francisco, CA", WorkType: marketplace.WorkTypeProjects, Category: "web-development",
				Availability: marketplace.AvailableNow, Skills: []string{"React", "Node.js"},
				Badges: []marketplace.Badge{marketplace.BadgeGovernmentVerified, marketplace.BadgeProfessionalVerified, marketplace.BadgeCommunityTrusted},
			},
			{
				ID: "marcus", Name: "Marcus Johnson", Title: "Licensed Plumber", Rating: 4.8, HourlyRate: 65,
				Location: "Oakland, CA", WorkType: marketplace.WorkTypeGigs, Category: "home-repair", Urgency: "today",
				Skills: []string{"Plumbing"},
				Badges: []marketplace.Badge{marketplace.BadgeGovernmentVerified, marketplace.BadgeProfessionalVerified},
			},
			{
				ID: "elena", Name: "Elena Rodriguez", Title: "Brand Designer", Rating: 4.7, HourlyRate: 50,
				Location: "Remote", WorkType: marketplace.WorkTypeProjects, Category: "design",
				Skills: []string{"Logo Design"},
				Badges: []marketplace.Badge{marketplace.BadgeCommunityTrusted},
			},
			{
				ID: "james", Name: "James Wilson", Title: "Mover", Rating: 4.5, HourlyRate: 51,
				Location: "remote", WorkType: marketplace.WorkTypeGigs, Category: "moving", Urgency: "asap",
				Skills: []string{"Moving"},
			},
			{
				ID: "priya", Name: "Priya Sharma", Title: "Mobile App Developer", Rating: 4.8, HourlyRate: 160,
				Location: "Remote", WorkType: marketplace.WorkTypeProjects, Category: "mobile-development",
				Skills: []string{"Swift", "React Native"},
				Badges: []marketplace.Badge{marketplace.BadgeTopRated, "fake-badge"},
			},
		},
	}
}

func ids(r *marketplace.Roster) []string {
	return r.IDs()
}

func TestApplyIdentity(t *testing.T) {
	roster := testRoster()

	for name, c := range map[string]Criteria{
		"default": DefaultCriteria(),
		"zero":    {},
		"blank":   {WorkType: " ALL ", Query: "   "},
	} {
		got := Apply(roster, c)
		if !slices.Equal(ids(got), ids(roster)) {
			t.Fatalf("%s: expected identity, got %v", name, ids(got))
		}
		if !c.IsIdentity() {
			t.Fatalf("%s: expected IsIdentity", name)
		}
	}
}

func TestApplyDoesNotMutateRoster(t *testing.T) {
	roster := testRoster()
	before := ids(roster)

	got := Apply(roster, DefaultCriteria().WithWorkType("gigs"))
	if len(got.Items) == len(roster.Items) {
		t.Fatalf("expected a narrower result")
	}
	if !slices.Equal(ids(roster), before) {
		t.Fatalf("roster was mutated: %v", ids(roster))
	}

	got.Items[0] = nil
	if roster.Items[1] == nil {
		t.Fatalf("result must not alias the roster slice")
	}
}

func TestApplySingleCriteria(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		criteria Criteria
		expect   []string
	}{
		{
			name:     "work type gigs",
			criteria: Criteria{WorkType: "gigs"},
			expect:   []string{"marcus", "james"},
		},
		{
			name:     "work type singular alias",
			criteria: Criteria{WorkType: "project"},
			expect:   []string{"sarah", "elena", "priya"},
		},
		{
			name:     "gig category under gigs",
			criteria: Criteria{WorkType: "gigs", GigCategory: "moving"},
			expect:   []string{"james"},
		},
		{
			name:     "gig category ignored under projects",
			criteria: Criteria{WorkType: "projects", GigCategory: "moving"},
			expect:   []string{"sarah", "elena", "priya"},
		},
		{
			name:     "project category under projects",
			criteria: Criteria{WorkType: "projects", ProjectCategory: "design"},
			expect:   []string{"elena"},
		},
		{
			name:     "category ignored without work type",
			criteria: Criteria{ProjectCategory: "design"},
			expect:   []string{"sarah", "marcus", "elena", "james", "priya"},
		},
		{
			name:     "urgency under gigs",
			criteria: Criteria{WorkType: "gigs", Urgency: "asap"},
			expect:   []string{"james"},
		},
		{
			name:     "urgency ignored outside gigs",
			criteria: Criteria{Urgency: "asap"},
			expect:   []string{"sarah", "marcus", "elena", "james", "priya"},
		},
		{
			name:     "budget lower bucket",
			criteria: Criteria{Budget: "0-50"},
			expect:   []string{"elena"},
		},
		{
			name:     "budget open ended bucket",
			criteria: Criteria{Budget: "150+"},
			expect:   []string{"priya"},
		},
		{
			name:     "remote is an exact match",
			criteria: Criteria{Location: "remote"},
			expect:   []string{"elena", "priya"},
		},
		{
			name:     "radius does not filter",
			criteria: Criteria{Location: "25mi"},
			expect:   []string{"sarah", "marcus", "elena", "james", "priya"},
		},
		{
			name:     "query matches skill",
			criteria: Criteria{Query: "react"},
			expect:   []string{"sarah", "priya"},
		},
		{
			name:     "query matches title",
			criteria: Criteria{Query: "PLUMBER"},
			expect:   []string{"marcus"},
		},
		{
			name:     "query matches name",
			criteria: Criteria{Query: "wilson"},
			expect:   []string{"james"},
		},
		{
			name:     "unknown values treated as all",
			criteria: Criteria{WorkType: "freelance", Budget: "cheap", Location: "mars"},
			expect:   []string{"sarah", "marcus", "elena", "james", "priya"},
		},
		{
			name:     "conjunction",
			criteria: Criteria{WorkType: "projects", Location: "remote", Query: "design"},
			expect:   []string{"elena"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ids(Apply(testRoster(), tt.criteria))
			if !slices.Equal(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestBudgetBoundary(t *testing.T) {
	roster := &marketplace.Roster{Items: []*marketplace.Worker{
		{ID: "at", HourlyRate: 50},
		{ID: "over", HourlyRate: 51},
		{ID: "zero", HourlyRate: 0},
	}}

	got := ids(Apply(roster, Criteria{Budget: "0-50"}))
	if !slices.Equal(got, []string{"at", "zero"}) {
		t.Fatalf("expected boundary inclusion, got %v", got)
	}

	got = ids(Apply(roster, Criteria{Budget: "50-100"}))
	if !slices.Equal(got, []string{"at", "over"}) {
		t.Fatalf("expected both ends of 50-100, got %v", got)
	}
}

func TestBadgesAreInclusiveOr(t *testing.T) {
	selected := []marketplace.Badge{marketplace.BadgeCommunityTrusted, marketplace.BadgeTopRated}
	got := Apply(testRoster(), Criteria{Badges: selected})

	if !slices.Equal(ids(got), []string{"sarah", "elena", "priya"}) {
		t.Fatalf("unexpected result: %v", ids(got))
	}
	for _, w := range got.Items {
		if !w.HasBadge(selected[0]) && !w.HasBadge(selected[1]) {
			t.Fatalf("%s has none of the selected badges", w.ID)
		}
	}
}

func TestUnknownBadgeNeverMatches(t *testing.T) {
	got := Apply(testRoster(), Criteria{Badges: []marketplace.Badge{"fake-badge"}})
	if got.Len() != 0 {
		t.Fatalf("expected no matches for an unknown badge, got %v", ids(got))
	}
}

func TestRunReportsSteps(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)

	steps := Steps(Criteria{WorkType: "gigs", Query: "mov"})
	got, stats := Run(logger, steps, testRoster())

	if !slices.Equal(ids(got), []string{"james"}) {
		t.Fatalf("unexpected result: %v", ids(got))
	}

	if len(stats) != 2 {
		t.Fatalf("expected 2 executed steps, got %d", len(stats))
	}
	if stats[0] != (Step{Name: "work_type", Initial: 5, Dropped: 3, Left: 2}) {
		t.Fatalf("unexpected first step: %+v", stats[0])
	}
	if stats[1] != (Step{Name: "query", Initial: 2, Dropped: 1, Left: 1}) {
		t.Fatalf("unexpected second step: %+v", stats[1])
	}

	if n := observed.FilterMessage("filter step").Len(); n != 2 {
		t.Fatalf("expected 2 step logs, got %d", n)
	}
	if n := observed.FilterMessage("filter disabled").Len(); n != 5 {
		t.Fatalf("expected 5 disabled logs, got %d", n)
	}
}

func TestRunNilRoster(t *testing.T) {
	got, stats := Run(nil, Steps(Criteria{Query: "x"}), nil)
	if got == nil || got.Len() != 0 {
		t.Fatalf("expected empty roster")
	}
	if len(stats) != 1 || stats[0].Initial != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestDescribeAndDisableByName(t *testing.T) {
	steps := Steps(Criteria{WorkType: "gigs", Budget: "bogus"})
	DisableByName(steps, "work_type", "switched off")

	statuses := Describe(steps)
	if len(statuses) != 7 {
		t.Fatalf("expected 7 statuses, got %d", len(statuses))
	}

	byName := map[string]Status{}
	for _, s := range statuses {
		byName[s.Name] = s
	}

	if s := byName["work_type"]; s.Enabled || s.Reason != "switched off" {
		t.Fatalf("unexpected work_type status: %+v", s)
	}
	if s := byName["budget"]; s.Enabled || s.Reason != `unrecognized value "bogus" treated as all` {
		t.Fatalf("unexpected budget status: %+v", s)
	}
	if s := byName["urgency"]; s.Enabled {
		t.Fatalf("urgency should be disabled when unset")
	}
}

func TestCriteriaHelpersDoNotAlias(t *testing.T) {
	base := DefaultCriteria().ToggleBadge(marketplace.BadgeTopRated)
	next := base.ToggleBadge(marketplace.BadgeCommunityTrusted)

	if len(base.Badges) != 1 {
		t.Fatalf("base criteria changed: %v", base.Badges)
	}
	if len(next.Badges) != 2 {
		t.Fatalf("expected 2 badges, got %v", next.Badges)
	}

	removed := next.ToggleBadge(marketplace.BadgeTopRated)
	if !slices.Equal(removed.Badges, []marketplace.Badge{marketplace.BadgeCommunityTrusted}) {
		t.Fatalf("unexpected badges after toggle: %v", removed.Badges)
	}
	if len(next.Badges) != 2 {
		t.Fatalf("toggle mutated its receiver: %v", next.Badges)
	}

	if wt, ok := DefaultCriteria().WithWorkType("gig").ResolvedWorkType(); !ok || wt != marketplace.WorkTypeGigs {
		t.Fatalf("unexpected resolved work type: %q %v", wt, ok)
	}
}

func TestCriteriaEqual(t *testing.T) {
	t.Parallel()

	base := DefaultCriteria()
	toggled := base.ToggleBadge(marketplace.BadgeTopRated).ToggleBadge(marketplace.BadgeTopRated)
	if toggled.Badges == nil {
		t.Fatalf("expected an empty, non-nil selection after toggling back")
	}
	if !toggled.Equal(base) {
		t.Fatalf("toggling a badge on and off must give equal criteria")
	}

	if base.Equal(base.WithBudget("0-50")) {
		t.Fatalf("different budgets must not be equal")
	}
	if base.Equal(base.ToggleBadge(marketplace.BadgeTopRated)) {
		t.Fatalf("different badges must not be equal")
	}
	if !base.WithQuery("react").Equal(base.WithQuery("react")) {
		t.Fatalf("identical criteria must be equal")
	}
}

func TestBucketFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit  float64
		expect string
	}{
		{limit: 10, expect: "0-50"},
		{limit: 50, expect: "0-50"},
		{limit: 51, expect: "50-100"},
		{limit: 100, expect: "50-100"},
		{limit: 150, expect: "100-150"},
		{limit: 1000, expect: "150+"},
	}

	for _, tt := range tests {
		if got := BucketFor(tt.limit); got != tt.expect {
			t.Fatalf("BucketFor(%v) = %q, want %q", tt.limit, got, tt.expect)
		}
	}
}
