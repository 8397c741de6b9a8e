// Package effectmodel loads the hazard-source catalog: the effect-model
// document that maps a (hazard_id, source_name, source_type) triple to the
// effects list a hazard command applies. Grounded on the same
// effects/catalog.Resolver shape as internal/contentpack, generalized from a
// designer-effect catalog keyed by a single id to one keyed by a composite
// hazard/source triple.
package effectmodel

import (
	"encoding/json"
	"fmt"
	"strings"

	"tactics-engine/internal/reducer"
)

// SourceDocument is one entry under a hazard's "sources" list.
type SourceDocument struct {
	SourceType string                     `json:"source_type"`
	SourceName string                     `json:"source_name"`
	Effects    []reducer.EffectDescriptor `json:"effects"`
	RawText    string                     `json:"raw_text,omitempty"`
}

// HazardDocument is one entry under the top-level "hazards.entries" list.
type HazardDocument struct {
	HazardID   string           `json:"hazard_id"`
	HazardName string           `json:"hazard_name"`
	Sources    []SourceDocument `json:"sources"`
}

// Document is the top-level effect-model JSON shape from §6.
type Document struct {
	Hazards struct {
		Entries []HazardDocument `json:"entries"`
	} `json:"hazards"`
}

type sourceKey struct {
	hazardID, sourceName, sourceType string
}

// Catalog is a resolved, lookup-ready effect-model document.
type Catalog struct {
	sources map[sourceKey]SourceDocument
}

// Parse validates and indexes a raw effect-model document by its
// (hazard_id, source_name, source_type) composite key.
func Parse(raw []byte) (*Catalog, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("effectmodel: malformed json: %w", err)
	}

	sources := make(map[sourceKey]SourceDocument)
	for _, hazard := range doc.Hazards.Entries {
		id := strings.TrimSpace(hazard.HazardID)
		if id == "" {
			return nil, fmt.Errorf("effectmodel: hazard entry missing hazard_id")
		}
		for _, src := range hazard.Sources {
			if strings.TrimSpace(src.SourceName) == "" || strings.TrimSpace(src.SourceType) == "" {
				return nil, fmt.Errorf("effectmodel: hazard %q has a source missing source_name/source_type", id)
			}
			key := sourceKey{hazardID: id, sourceName: src.SourceName, sourceType: src.SourceType}
			if _, dup := sources[key]; dup {
				return nil, fmt.Errorf("effectmodel: duplicate source (%s,%s,%s)", id, src.SourceName, src.SourceType)
			}
			sources[key] = src
		}
	}

	return &Catalog{sources: sources}, nil
}

// Lookup resolves a (hazard_id, source_name, source_type) triple to its
// effects list and raw descriptive text, matching the reducer's
// HazardSourceLookup shape.
func (c *Catalog) Lookup(hazardID, sourceName, sourceType string) ([]reducer.EffectDescriptor, string, bool) {
	src, ok := c.sources[sourceKey{hazardID: hazardID, sourceName: sourceName, sourceType: sourceType}]
	if !ok {
		return nil, "", false
	}
	return src.Effects, src.RawText, true
}
