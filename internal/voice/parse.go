// Package voice turns spoken search requests into search criteria.
//
// Speech recognition and synthesis are platform services, so they are reached
// through the Recognizer and Speaker interfaces. Parsing is a keyword
// heuristic: a transcript that mentions nothing known leaves criteria as they are.
package voice

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/gig-matcher/internal/filtering"
	"github.com/spigell/gig-matcher/internal/marketplace"
)

type skillKeyword struct {
	keyword string
	skill   string
}

// skillVocabulary is searched in order and the first hit wins.
var skillVocabulary = []skillKeyword{
	{keyword: "plumb", skill: "plumbing"},
	{keyword: "electric", skill: "electrical"},
	{keyword: "clean", skill: "cleaning"},
	{keyword: "mover", skill: "moving"},
	{keyword: "moving", skill: "moving"},
	{keyword: "paint", skill: "painting"},
	{keyword: "handyman", skill: "handyman"},
	{keyword: "assembl", skill: "furniture assembly"},
	{keyword: "deliver", skill: "delivery"},
	{keyword: "tutor", skill: "tutoring"},
	{keyword: "react", skill: "react"},
	{keyword: "javascript", skill: "javascript"},
	{keyword: "typescript", skill: "typescript"},
	{keyword: "python", skill: "python"},
	{keyword: "swift", skill: "swift"},
	{keyword: "logo", skill: "logo design"},
	{keyword: "design", skill: "design"},
	{keyword: "copywrit", skill: "copywriting"},
	{keyword: "writ", skill: "writing"},
	{keyword: "seo", skill: "seo"},
}

var gigKeywords = []string{
	"plumber", "plumbing", "electrician", "handyman", "cleaner", "cleaning",
	"mover", "moving", "delivery", "repair", "fix", "assemble", "urgent", "today", "gig",
}

var projectKeywords = []string{
	"website", "web", "app", "design", "logo", "develop", "writer", "writing",
	"marketing", "seo", "project",
}

var budgetPattern = regexp.MustCompile(`under\s+\$?(\d+(?:\.\d+)?)`)

// Query is what could be understood from a single transcript.
type Query struct {
	Transcript  string
	Skill       string
	Budget      string
	BudgetLimit float64
	WorkType    marketplace.WorkType
}

// Matched reports whether anything was recognised.
func (q Query) Matched() bool {
	return q.Skill != "" || q.Budget != "" || q.WorkType != ""
}

// Apply returns c updated with every recognised part of q.
func (q Query) Apply(c filtering.Criteria) filtering.Criteria {
	c = c.Clone()
	if q.Skill != "" {
		c = c.WithQuery(q.Skill)
	}
	if q.Budget != "" {
		c = c.WithBudget(q.Budget)
	}
	if q.WorkType != "" {
		c = c.WithWorkType(string(q.WorkType))
	}
	return c
}

// Parse extracts at most one skill, a budget bucket and a work type from transcript.
func Parse(transcript string) Query {
	q := Query{Transcript: transcript}
	text := strings.ToLower(transcript)

	for _, entry := range skillVocabulary {
		if strings.Contains(text, entry.keyword) {
			q.Skill = entry.skill
			break
		}
	}

	if m := budgetPattern.FindStringSubmatch(text); m != nil {
		if limit, err := strconv.ParseFloat(m[1], 64); err == nil {
			q.BudgetLimit = limit
			q.Budget = filtering.BucketFor(limit)
		}
	}

	// Gig keywords are checked first, so a transcript mentioning both kinds resolves to gigs.
	switch {
	case containsAny(text, gigKeywords):
		q.WorkType = marketplace.WorkTypeGigs
	case containsAny(text, projectKeywords):
		q.WorkType = marketplace.WorkTypeProjects
	}

	return q
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
