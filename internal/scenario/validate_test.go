package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validScenarioJSON() string {
	return `{
		"battle_id": "bridge-ambush",
		"seed": 42,
		"map": {"width": 6, "height": 6},
		"units": [
			{"id": "pc", "team": "players", "hp": 20, "position": [1,1]},
			{"id": "enemy", "team": "enemies", "hp": 15, "position": [3,3]}
		]
	}`
}

func TestValidateAcceptsWellFormedScenario(t *testing.T) {
	doc, err := Validate([]byte(validScenarioJSON()))
	require.NoError(t, err)
	if doc.BattleID != "bridge-ambush" {
		t.Fatalf("got battle_id %q", doc.BattleID)
	}
	if len(doc.Units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(doc.Units))
	}
}

func TestValidateRejectsMissingRequiredKeys(t *testing.T) {
	_, err := Validate([]byte(`{"seed": 1}`))
	require.Error(t, err)
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("got %T, want *ValidationError", err)
	}
	if len(verr.Issues) == 0 {
		t.Fatal("expected at least one issue")
	}
}

func TestValidateRejectsUnknownTopLevelField(t *testing.T) {
	raw := `{
		"battle_id": "x", "seed": 1,
		"map": {"width": 1, "height": 1},
		"units": [{"id": "a", "team": "t", "hp": 1, "position": [0,0]}],
		"totally_unknown_field": true
	}`
	_, err := Validate([]byte(raw))
	require.ErrorContains(t, err, "unknown or malformed field")
}

func TestValidateRejectsDuplicateUnitIDs(t *testing.T) {
	raw := `{
		"battle_id": "x", "seed": 1,
		"map": {"width": 2, "height": 2},
		"units": [
			{"id": "a", "team": "t", "hp": 1, "position": [0,0]},
			{"id": "a", "team": "t", "hp": 1, "position": [1,1]}
		]
	}`
	_, err := Validate([]byte(raw))
	require.ErrorContains(t, err, `duplicate unit id "a"`)
}

func TestValidateRejectsUnknownCommandField(t *testing.T) {
	raw := `{
		"battle_id": "x", "seed": 1,
		"map": {"width": 2, "height": 2},
		"units": [{"id": "a", "team": "t", "hp": 1, "position": [0,0]}],
		"commands": [{"actor": "a", "type": "move", "x": 1, "y": 0, "bogus": true}]
	}`
	_, err := Validate([]byte(raw))
	require.ErrorContains(t, err, `unknown field "bogus"`)
}

func TestValidateRejectsMultiplePacksWithoutID(t *testing.T) {
	raw := `{
		"battle_id": "x", "seed": 1,
		"map": {"width": 2, "height": 2},
		"units": [{"id": "a", "team": "t", "hp": 1, "position": [0,0]}],
		"content_packs": ["core", "expansion"]
	}`
	_, err := Validate([]byte(raw))
	require.ErrorContains(t, err, "content_pack_id is required")
}

func TestValidationErrorMessageIsSpecific(t *testing.T) {
	_, err := Validate([]byte(`{}`))
	require.Error(t, err)
	if err.Error() == "" {
		t.Fatal("expected a non-empty error message")
	}
}
