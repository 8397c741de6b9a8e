package effectmodel

import "testing"

func sampleEffectModelJSON() string {
	return `{
		"hazards": {
			"entries": [
				{
					"hazard_id": "h1",
					"hazard_name": "Spore Cloud",
					"sources": [
						{
							"source_type": "trigger_action",
							"source_name": "s1",
							"raw_text": "Any sickened condition persists.",
							"effects": [
								{"kind": "affliction", "payload": {"save_type": "fortitude", "dc": 18}}
							]
						}
					]
				}
			]
		}
	}`
}

func TestParseIndexesBySourceKey(t *testing.T) {
	catalog, err := Parse([]byte(sampleEffectModelJSON()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	effects, rawText, ok := catalog.Lookup("h1", "s1", "trigger_action")
	if !ok {
		t.Fatal("expected a lookup hit")
	}
	if len(effects) != 1 || effects[0].Kind != "affliction" {
		t.Fatalf("got effects %+v", effects)
	}
	if rawText == "" {
		t.Fatal("expected raw_text to be populated")
	}
}

func TestLookupMissesOnWrongSourceType(t *testing.T) {
	catalog, err := Parse([]byte(sampleEffectModelJSON()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, ok := catalog.Lookup("h1", "s1", "routine"); ok {
		t.Fatal("expected a miss for a mismatched source_type")
	}
}

func TestParseRejectsDuplicateSourceKey(t *testing.T) {
	raw := `{"hazards":{"entries":[
		{"hazard_id":"h1","sources":[
			{"source_type":"t","source_name":"s","effects":[]},
			{"source_type":"t","source_name":"s","effects":[]}
		]}
	]}}`
	if _, err := Parse([]byte(raw)); err == nil {
		t.Fatal("expected an error for a duplicate (hazard,source_name,source_type) key")
	}
}

func TestParseRejectsMissingHazardID(t *testing.T) {
	raw := `{"hazards":{"entries":[{"sources":[]}]}}`
	if _, err := Parse([]byte(raw)); err == nil {
		t.Fatal("expected an error for a missing hazard_id")
	}
}
