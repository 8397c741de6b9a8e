package contentpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func samplePackJSON() string {
	return `{
		"pack_id": "core",
		"version": "1.2.0",
		"compatibility": {"min_engine_phase": 1, "max_engine_phase": 10, "feature_tags": ["afflictions"]},
		"entries": [
			{"id": "spell.arc_flash", "kind": "spell", "tags": ["fire"], "payload": {
				"command_type": "cast_spell", "dc": 18, "save_type": "reflex", "damage": "4d6", "damage_type": "fire", "mode": "basic", "uses_per_day": 1
			}}
		]
	}`
}

func TestParseAcceptsWellFormedPack(t *testing.T) {
	pack, err := Parse([]byte(samplePackJSON()))
	require.NoError(t, err)
	if pack.PackID != "core" {
		t.Fatalf("got pack_id %q", pack.PackID)
	}
	if pack.Version.String() != "1.2.0" {
		t.Fatalf("got version %q", pack.Version.String())
	}
}

func TestParseRejectsInvalidVersion(t *testing.T) {
	raw := `{"pack_id":"x","version":"not-semver","compatibility":{"min_engine_phase":1,"max_engine_phase":2},"entries":[{"id":"a","kind":"item","payload":{}}]}`
	_, err := Parse([]byte(raw))
	require.ErrorContains(t, err, "invalid version")
}

func TestParseRejectsMaxBelowMin(t *testing.T) {
	raw := `{"pack_id":"x","version":"1.0.0","compatibility":{"min_engine_phase":5,"max_engine_phase":2},"entries":[{"id":"a","kind":"item","payload":{}}]}`
	_, err := Parse([]byte(raw))
	require.ErrorContains(t, err, "max_engine_phase must be >= min_engine_phase")
}

func TestParseRejectsDuplicateEntryID(t *testing.T) {
	raw := `{"pack_id":"x","version":"1.0.0","compatibility":{"min_engine_phase":1,"max_engine_phase":2},
		"entries":[{"id":"a","kind":"item","payload":{}},{"id":"a","kind":"item","payload":{}}]}`
	_, err := Parse([]byte(raw))
	require.ErrorContains(t, err, `duplicate entry id "a"`)
}

func TestParseRejectsUnknownKind(t *testing.T) {
	raw := `{"pack_id":"x","version":"1.0.0","compatibility":{"min_engine_phase":1,"max_engine_phase":2},"entries":[{"id":"a","kind":"weapon","payload":{}}]}`
	_, err := Parse([]byte(raw))
	require.ErrorContains(t, err, `unknown kind "weapon"`)
}

func TestCompatibleWithPhase(t *testing.T) {
	pack, err := Parse([]byte(samplePackJSON()))
	require.NoError(t, err)
	if !pack.CompatibleWithPhase(7) {
		t.Fatal("expected phase 7 to be within [1,10]")
	}
	if pack.CompatibleWithPhase(11) {
		t.Fatal("expected phase 11 to be outside [1,10]")
	}
}

func TestRequireFeaturesReportsMissing(t *testing.T) {
	pack, err := Parse([]byte(samplePackJSON()))
	require.NoError(t, err)
	require.NoError(t, pack.RequireFeatures([]string{"afflictions"}))
	err = pack.RequireFeatures([]string{"afflictions", "summoning"})
	require.ErrorContains(t, err, "missing required feature tags")
}
