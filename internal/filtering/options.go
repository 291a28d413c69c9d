package filtering

import (
	"fmt"
	"math"
)

// GigCategories are the category selectors of the gigs namespace.
var GigCategories = []string{
	"home-repair",
	"cleaning",
	"moving",
	"delivery",
	"electrical",
	"pet-care",
	"tutoring",
}

// ProjectCategories are the category selectors of the projects namespace.
var ProjectCategories = []string{
	"web-development",
	"mobile-development",
	"design",
	"writing",
	"marketing",
	"video",
}

var Urgencies = []string{
	"asap",
	"today",
	"this-week",
	"flexible",
}

const LocationRemote = "remote"

// RadiusLocations are accepted location selectors that carry no geodata and
// therefore never narrow the roster.
var RadiusLocations = []string{
	"5mi",
	"10mi",
	"25mi",
	"50mi",
}

// Bucket is an hourly rate range. Max is inclusive; an open-ended bucket has
// no upper bound.
type Bucket struct {
	Name      string
	Min       float64
	Max       float64
	OpenEnded bool
}

// Contains reports whether rate falls inside the bucket.
func (b Bucket) Contains(rate float64) bool {
	if rate < b.Min {
		return false
	}
	return b.OpenEnded || rate <= b.Max
}

func (b Bucket) String() string {
	if b.OpenEnded {
		return fmt.Sprintf("$%.0f+/hr", b.Min)
	}
	return fmt.Sprintf("$%.0f-%.0f/hr", b.Min, b.Max)
}

// Budgets lists the rate buckets in ascending order.
var Budgets = []Bucket{
	{Name: "0-50", Min: 0, Max: 50},
	{Name: "50-100", Min: 50, Max: 100},
	{Name: "100-150", Min: 100, Max: 150},
	{Name: "150+", Min: 150, Max: math.Inf(1), OpenEnded: true},
}

// LookupBudget finds a bucket by its selector name, e.g. "50-100".
func LookupBudget(name string) (Bucket, bool) {
	name = normalize(name)
	for _, b := range Budgets {
		if b.Name == name {
			return b, true
		}
	}
	return Bucket{}, false
}

// BucketFor returns the bucket name a spoken "under N" limit falls into: the
// first bucket whose upper bound is at least n.
func BucketFor(n float64) string {
	for _, b := range Budgets {
		if b.OpenEnded || n <= b.Max {
			return b.Name
		}
	}
	return Budgets[len(Budgets)-1].Name
}

func contains(options []string, value string) bool {
	value = normalize(value)
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
