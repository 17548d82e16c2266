// Package timezones serves the curated time-zone list the profile picker
// shows and validates the zone IDs users save. The list is embedded so the
// picker works without a database round trip and stays identical across
// deployments.
package timezones

import (
	"embed"
	"encoding/json"
	"sync"
)

//go:embed timezonedata/timezones.json
var fs embed.FS

type Zone struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var (
	loadOnce sync.Once
	zones    []Zone
	byID     map[string]Zone
	loadErr  error
)

func load() {
	loadOnce.Do(func() {
		data, err := fs.ReadFile("timezonedata/timezones.json")
		if err != nil {
			loadErr = err
			return
		}
		var list []Zone
		if err := json.Unmarshal(data, &list); err != nil {
			loadErr = err
			return
		}
		zones = list
		byID = make(map[string]Zone, len(list))
		for _, z := range list {
			byID[z.ID] = z
		}
	})
}

// Load forces the embedded data to parse; call it at startup to fail fast.
func Load() error {
	load()
	return loadErr
}

// All returns the curated zones in their embedded order.
func All() ([]Zone, error) {
	load()
	if loadErr != nil {
		return nil, loadErr
	}
	return zones, nil
}

// Label returns the display label for an ID, or the ID itself if unknown.
func Label(id string) string {
	load()
	if loadErr != nil {
		return id
	}
	if z, ok := byID[id]; ok && z.Label != "" {
		return z.Label
	}
	return id
}

// Valid reports whether the ID is in the curated list.
func Valid(id string) bool {
	load()
	if loadErr != nil {
		return false
	}
	_, ok := byID[id]
	return ok
}
