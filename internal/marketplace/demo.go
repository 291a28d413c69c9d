package marketplace

import (
	_ "embed"
	"fmt"
)

//go:embed demo_roster.json
var demoRoster []byte

// DemoRoster returns the built-in sample roster used when no other source is configured.
func DemoRoster() (*Roster, error) {
	roster, err := decodeRoster(demoRoster)
	if err != nil {
		return nil, fmt.Errorf("demo roster: %w", err)
	}
	return roster, nil
}
