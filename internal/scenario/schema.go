package scenario

import (
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// BuildSchema reflects the Document type into a JSON Schema, mirroring the
// catalog package's schema_generate tool. Editor tooling and the scenario
// CLI can render this without duplicating the document shape by hand.
func BuildSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	root := reflector.ReflectFromType(reflect.TypeOf(Document{}))
	if root == nil {
		return nil, fmt.Errorf("scenario: failed to reflect document schema")
	}
	root.Version = jsonschema.Version
	root.Title = "Tactics Engine Scenario"
	root.Description = "A seeded battle setup: map, units, scripted commands, objectives, and hazard routines."
	return root, nil
}
