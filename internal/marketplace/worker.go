package marketplace

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
)

const (
	// RemoteLocation is the literal location value of workers who only work remotely.
	RemoteLocation = "Remote"
	// AvailableNow is the availability label of workers who can start immediately.
	AvailableNow = "Available Now"
)

type WorkType string

const (
	WorkTypeGeneral  WorkType = "general"
	WorkTypeGigs     WorkType = "gigs"
	WorkTypeProjects WorkType = "projects"
)

// ParseWorkType maps a free-form value onto the work type enum.
// Singular forms are accepted. The second return is false for unknown values.
func ParseWorkType(s string) (WorkType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "general":
		return WorkTypeGeneral, true
	case "gig", "gigs":
		return WorkTypeGigs, true
	case "project", "projects":
		return WorkTypeProjects, true
	default:
		return "", false
	}
}

type Roster struct {
	Items []*Worker `json:"items"`
}

type Worker struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name,omitempty"`
	Title         string   `json:"title,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	CompletedJobs int      `json:"completedJobs,omitempty"`
	HourlyRate    float64  `json:"hourlyRate,omitempty"`
	Location      string   `json:"location,omitempty"`
	WorkType      WorkType `json:"workType,omitempty"`
	Category      string   `json:"category,omitempty"`
	Urgency       string   `json:"urgency,omitempty"`
	Availability  string   `json:"availability,omitempty"`
	Skills        []string `json:"skills,omitempty"`
	Badges        []Badge  `json:"badges,omitempty"`
	Bio           string   `json:"bio,omitempty"`
}

// HasBadge reports whether the worker carries the given badge.
// Tags outside the badge enum never match.
func (w *Worker) HasBadge(b Badge) bool {
	if !b.Valid() {
		return false
	}
	for _, own := range w.Badges {
		if own == b {
			return true
		}
	}
	return false
}

// ValidBadges returns the distinct worker badges that belong to the badge
// enum, in order of first appearance.
func (w *Worker) ValidBadges() []Badge {
	valid := make([]Badge, 0, len(w.Badges))
	for _, b := range w.Badges {
		if b.Valid() && !slices.Contains(valid, b) {
			valid = append(valid, b)
		}
	}
	return valid
}

func (w *Worker) IsRemote() bool {
	return w.Location == RemoteLocation
}

func (w *Worker) IsAvailableNow() bool {
	return w.Availability == AvailableNow
}

func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}

func (r *Roster) FindByID(id string) *Worker {
	if r == nil {
		return nil
	}
	for _, w := range r.Items {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (r *Roster) IDs() []string {
	ids := make([]string, 0, r.Len())
	if r == nil {
		return ids
	}
	for _, w := range r.Items {
		ids = append(ids, w.ID)
	}
	return ids
}

// ReportByCategory groups workers by "<work type>/<category>".
func (r *Roster) ReportByCategory() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	if r == nil {
		return report
	}
	for _, w := range r.Items {
		key := fmt.Sprintf("%s/%s", w.WorkType, w.Category)
		badges := make([]string, 0, len(w.Badges))
		for _, b := range w.ValidBadges() {
			badges = append(badges, string(b))
		}
		report[key] = append(report[key], map[string]string{
			"name":         w.Name,
			"title":        w.Title,
			"location":     w.Location,
			"rate":         fmt.Sprintf("$%.0f/hr", w.HourlyRate),
			"rating":       fmt.Sprintf("%.1f", w.Rating),
			"availability": w.Availability,
			"badges":       strings.Join(badges, ","),
		})
	}
	return report
}

func (r *Roster) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "workers_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (r *Roster) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// LoadRosterFile reads a roster saved as JSON. Both {"items": [...]} and a bare
// array of workers are accepted. An empty file yields an empty roster.
func LoadRosterFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeRoster(data)
}

func decodeRoster(data []byte) (*Roster, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return &Roster{}, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var items []*Worker
		if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
			return nil, fmt.Errorf("decode roster: %w", err)
		}
		return &Roster{Items: items}, nil
	}

	var roster Roster
	if err := json.Unmarshal([]byte(trimmed), &roster); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return &roster, nil
}
