package domain

// CrosswalkEntry pairs an electoral-source identifier with the
// registry identifier used by the rest of the application.
type CrosswalkEntry struct {
	// ExternalID is the electoral-source identifier for a locality.
	ExternalID string

	// CanonicalID is the statistical registry identifier for the same locality.
	CanonicalID string
}

// Crosswalk maps external identifiers to canonical identifiers.
// It is built once per run and read-only afterwards.
type Crosswalk struct {
	entries map[string]string

	// Duplicates counts source records whose external identifier had
	// already been seen. The later record wins.
	Duplicates int

	// DuplicateIDs lists the repeated external identifiers in load order.
	DuplicateIDs []string
}

// NewCrosswalk builds a crosswalk from entries in source order.
// A repeated external identifier overwrites the earlier mapping and is counted.
func NewCrosswalk(entries []CrosswalkEntry) *Crosswalk {
	c := &Crosswalk{entries: make(map[string]string, len(entries))}
	for _, e := range entries {
		if _, seen := c.entries[e.ExternalID]; seen {
			c.Duplicates++
			c.DuplicateIDs = append(c.DuplicateIDs, e.ExternalID)
		}
		c.entries[e.ExternalID] = e.CanonicalID
	}
	return c
}

// Resolve returns the canonical identifier for an external identifier.
func (c *Crosswalk) Resolve(externalID string) (string, bool) {
	if c == nil {
		return "", false
	}
	id, ok := c.entries[externalID]
	return id, ok
}

// Len returns the number of distinct external identifiers.
func (c *Crosswalk) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}
