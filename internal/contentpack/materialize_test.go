package contentpack

import "testing"

func TestMaterializeMergesPayloadAsDefaults(t *testing.T) {
	pack, err := Parse([]byte(samplePackJSON()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	command := map[string]any{
		"actor": "pc", "type": "cast_spell", "target": "enemy",
		"content_entry_id": "spell.arc_flash",
	}
	merged, err := pack.Materialize(command)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged["dc"] != float64(18) {
		t.Fatalf("expected dc to be inherited from the entry payload, got %v", merged["dc"])
	}
	if merged["target"] != "enemy" {
		t.Fatalf("expected caller's target to survive, got %v", merged["target"])
	}
	if merged["spell_id"] != "arc_flash" {
		t.Fatalf("expected spell_id derived from entry id, got %v", merged["spell_id"])
	}
	if _, stillPresent := merged["command_type"]; stillPresent {
		t.Fatal("expected command_type to be stripped")
	}
	if merged["uses_per_day"] != float64(1) {
		t.Fatalf("expected uses_per_day carried through, got %v", merged["uses_per_day"])
	}
	tags, _ := merged["tags"].([]string)
	if len(tags) != 1 || tags[0] != "fire" {
		t.Fatalf("expected entry tags copied, got %v", merged["tags"])
	}
}

func TestMaterializeCallerWinsOnCollision(t *testing.T) {
	pack, err := Parse([]byte(samplePackJSON()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	command := map[string]any{
		"actor": "pc", "type": "cast_spell", "target": "enemy", "dc": 99,
		"content_entry_id": "spell.arc_flash",
	}
	merged, err := pack.Materialize(command)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged["dc"] != 99 {
		t.Fatalf("expected the caller's dc to win, got %v", merged["dc"])
	}
}

func TestMaterializeRejectsMismatchedCommandType(t *testing.T) {
	pack, err := Parse([]byte(samplePackJSON()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	command := map[string]any{
		"actor": "pc", "type": "use_item", "target": "enemy",
		"content_entry_id": "spell.arc_flash",
	}
	if _, err := pack.Materialize(command); err == nil {
		t.Fatal("expected a mismatch error: entry is a cast_spell template, command is use_item")
	}
}

func TestMaterializePassesThroughCommandsWithoutContentEntry(t *testing.T) {
	pack, err := Parse([]byte(samplePackJSON()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	command := map[string]any{"actor": "pc", "type": "move", "x": 1, "y": 0}
	merged, err := pack.Materialize(command)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged["x"] != 1 {
		t.Fatalf("expected passthrough command unchanged, got %v", merged)
	}
}
