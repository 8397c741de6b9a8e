package scenario

import "testing"

func TestBuildSchemaReflectsDocument(t *testing.T) {
	schema, err := BuildSchema()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schema.Title == "" {
		t.Fatal("expected a non-empty schema title")
	}
	if _, ok := schema.Properties.Get("battle_id"); !ok {
		t.Fatal("expected battle_id to be a reflected property")
	}
}
