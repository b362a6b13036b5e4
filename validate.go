package gazetteer

import "fmt"

// KnownCity pairs a name with the id it is expected to resolve to.
type KnownCity struct {
	Name   string
	WantID string
}

// Validate checks that g holds at least minRecords records and that every
// known name resolves, through ResolveByName, to the expected id.
func (g *Gazetteer) Validate(minRecords int, known []KnownCity) error {
	if n := g.Len(); n < minRecords {
		return fmt.Errorf("record count too low: got %d, want >= %d", n, minRecords)
	}
	for _, kc := range known {
		c, ok := g.ResolveByName(kc.Name)
		if !ok {
			return fmt.Errorf("resolve(%q): not found", kc.Name)
		}
		if c.ID != kc.WantID {
			return fmt.Errorf("resolve(%q) = %s, want %s", kc.Name, c.ID, kc.WantID)
		}
	}
	return nil
}
