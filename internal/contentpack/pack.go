// Package contentpack loads and resolves versioned content packs: the
// designer-authored spells/feats/items/traits/conditions a scenario can
// reference by id. Grounded on the teacher's effects/catalog.Resolver
// (mu-guarded source list, Load/NewResolver/Reload, clone-on-read entries),
// generalized from a single contract-backed effect catalog to a
// semver-gated, engine-phase-aware content pack with six entry kinds.
package contentpack

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// EntryKind enumerates the content-entry categories named in §3.
type EntryKind string

const (
	EntryAction    EntryKind = "action"
	EntrySpell     EntryKind = "spell"
	EntryFeat      EntryKind = "feat"
	EntryItem      EntryKind = "item"
	EntryTrait     EntryKind = "trait"
	EntryCondition EntryKind = "condition"
)

var allowedEntryKinds = map[EntryKind]bool{
	EntryAction: true, EntrySpell: true, EntryFeat: true,
	EntryItem: true, EntryTrait: true, EntryCondition: true,
}

// Compatibility gates a pack to an engine-phase window and advertises the
// optional features it supports.
type Compatibility struct {
	MinEnginePhase int      `json:"min_engine_phase"`
	MaxEnginePhase int      `json:"max_engine_phase"`
	FeatureTags    []string `json:"feature_tags,omitempty"`
}

// EntryDocument is a single designer-authored content entry as it appears on
// disk, prior to resolution.
type EntryDocument struct {
	ID        string         `json:"id"`
	Kind      EntryKind      `json:"kind"`
	SourceRef string         `json:"source_ref,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}

// Document is the top-level content pack JSON shape from §6.
type Document struct {
	PackID        string          `json:"pack_id"`
	Version       string          `json:"version"`
	Compatibility Compatibility   `json:"compatibility"`
	Entries       []EntryDocument `json:"entries"`
}

// Pack is a validated, version-parsed content pack ready for resolution.
type Pack struct {
	PackID        string
	Version       *semver.Version
	Compatibility Compatibility
	entries       map[string]EntryDocument
}

// Parse validates a raw content pack document and returns a resolvable Pack.
// Mirrors catalog.Resolver's per-entry duplicate/shape checks, wrapped with
// "contentpack: ...: %w" in place of the teacher's "catalog: ...: %w".
func Parse(raw []byte) (*Pack, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("contentpack: malformed json: %w", err)
	}

	if strings.TrimSpace(doc.PackID) == "" {
		return nil, fmt.Errorf("contentpack: missing pack_id")
	}
	version, err := semver.NewVersion(doc.Version)
	if err != nil {
		return nil, fmt.Errorf("contentpack: %s: invalid version %q: %w", doc.PackID, doc.Version, err)
	}
	if doc.Compatibility.MinEnginePhase < 1 {
		return nil, fmt.Errorf("contentpack: %s: min_engine_phase must be >= 1", doc.PackID)
	}
	if doc.Compatibility.MaxEnginePhase < doc.Compatibility.MinEnginePhase {
		return nil, fmt.Errorf("contentpack: %s: max_engine_phase must be >= min_engine_phase", doc.PackID)
	}
	if len(doc.Entries) == 0 {
		return nil, fmt.Errorf("contentpack: %s: entries must be non-empty", doc.PackID)
	}

	entries := make(map[string]EntryDocument, len(doc.Entries))
	for _, e := range doc.Entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			return nil, fmt.Errorf("contentpack: %s: entry missing id", doc.PackID)
		}
		if _, dup := entries[id]; dup {
			return nil, fmt.Errorf("contentpack: %s: duplicate entry id %q", doc.PackID, id)
		}
		if !allowedEntryKinds[e.Kind] {
			return nil, fmt.Errorf("contentpack: %s: entry %q has unknown kind %q", doc.PackID, id, e.Kind)
		}
		entries[id] = e
	}

	return &Pack{
		PackID:        doc.PackID,
		Version:       version,
		Compatibility: doc.Compatibility,
		entries:       entries,
	}, nil
}

// CompatibleWithPhase reports whether the pack's engine-phase window covers
// the given phase, per §6's "selected pack must satisfy min <= engine_phase
// <= max".
func (p *Pack) CompatibleWithPhase(enginePhase int) bool {
	return enginePhase >= p.Compatibility.MinEnginePhase && enginePhase <= p.Compatibility.MaxEnginePhase
}

// HasFeature reports whether the pack advertises a given feature tag.
func (p *Pack) HasFeature(tag string) bool {
	for _, t := range p.Compatibility.FeatureTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Resolve returns the content entry for an id, or false if absent.
func (p *Pack) Resolve(id string) (EntryDocument, bool) {
	e, ok := p.entries[id]
	return e, ok
}

// RequireFeatures checks every required feature tag is present, aggregating
// every missing tag into a single error.
func (p *Pack) RequireFeatures(required []string) error {
	var missing []string
	for _, tag := range required {
		if !p.HasFeature(tag) {
			missing = append(missing, tag)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("contentpack: %s: missing required feature tags %v", p.PackID, missing)
	}
	return nil
}
