package floorplan

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
)

//go:embed floors.json
var floorsFS embed.FS

// ErrUnknownFloor is returned when a floor id is not in the catalog.
var ErrUnknownFloor = errors.New("floorplan: unknown floor")

// Catalog holds the immutable set of floors known to this deployment.
type Catalog struct {
	floors []Floor
	byID   map[string]*Floor
}

// Load parses the embedded floor dataset into a Catalog.
func Load() (*Catalog, error) {
	data, err := floorsFS.ReadFile("floors.json")
	if err != nil {
		return nil, fmt.Errorf("reading embedded floors: %w", err)
	}

	var floors []Floor
	if err := json.Unmarshal(data, &floors); err != nil {
		return nil, fmt.Errorf("parsing embedded floors: %w", err)
	}

	c := &Catalog{
		floors: floors,
		byID:   make(map[string]*Floor, len(floors)),
	}
	for i := range c.floors {
		c.byID[c.floors[i].ID] = &c.floors[i]
	}
	return c, nil
}

// Floors returns every floor in dataset order.
func (c *Catalog) Floors() []Floor {
	return c.floors
}

// Floor returns the floor with the given id.
func (c *Catalog) Floor(id string) (*Floor, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// Select returns the floors for the given ids, preserving the order of
// ids. Unknown ids are skipped; an empty result is not an error.
func (c *Catalog) Select(ids []string) []Floor {
	out := make([]Floor, 0, len(ids))
	for _, id := range ids {
		if f, ok := c.byID[id]; ok {
			out = append(out, *f)
		}
	}
	return out
}
