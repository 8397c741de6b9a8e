package contentpack

import (
	"fmt"
	"strings"
)

// templateCommandTypes are the only command types a content entry's payload
// may declare itself as a template for, per §4.14.
var templateCommandTypes = map[string]bool{
	"cast_spell": true, "use_feat": true, "use_item": true, "interact": true,
}

// domainIDField maps a command type to the field its domain id is carried
// on, used when deriving an id from the entry's own id (e.g. "spell.arc_flash"
// under cast_spell derives "spell_id": "arc_flash").
var domainIDField = map[string]string{
	"cast_spell": "spell_id",
	"use_feat":   "feat_id",
	"use_item":   "item_id",
	"interact":   "interact_id",
}

// Materialize composes a final command by merging a content entry's payload
// as defaults under the caller's raw command fields (the caller wins on
// collision, and command_type is stripped), deriving the domain id from the
// entry id when the caller left it blank, copying the entry's tags onto the
// materialized command, and carrying any uses_per_day value through for
// non-core bookkeeping. command must already carry "type" and
// "content_entry_id".
func (p *Pack) Materialize(command map[string]any) (map[string]any, error) {
	entryID, _ := command["content_entry_id"].(string)
	if entryID == "" {
		return command, nil
	}
	commandType, _ := command["type"].(string)
	if !templateCommandTypes[commandType] {
		return nil, fmt.Errorf("contentpack: content_entry_id set on non-template command type %q", commandType)
	}

	entry, ok := p.Resolve(entryID)
	if !ok {
		return nil, fmt.Errorf("contentpack: %s: unknown content entry %q", p.PackID, entryID)
	}

	templateType, _ := entry.Payload["command_type"].(string)
	if templateType != commandType {
		return nil, fmt.Errorf("contentpack: entry %q is a %s template, not %s", entryID, templateType, commandType)
	}

	merged := make(map[string]any, len(entry.Payload)+len(command))
	for k, v := range entry.Payload {
		if k == "command_type" {
			continue
		}
		merged[k] = v
	}
	for k, v := range command {
		merged[k] = v
	}

	if field := domainIDField[commandType]; field != "" {
		if s, _ := merged[field].(string); s == "" {
			merged[field] = deriveDomainID(entryID)
		}
	}

	if len(entry.Tags) > 0 {
		merged["tags"] = append([]string(nil), entry.Tags...)
	}
	if usesPerDay, ok := entry.Payload["uses_per_day"]; ok {
		merged["uses_per_day"] = usesPerDay
	}

	return merged, nil
}

// deriveDomainID strips the entry id's "<kind>." prefix, e.g.
// "spell.arc_flash" -> "arc_flash".
func deriveDomainID(entryID string) string {
	if idx := strings.Index(entryID, "."); idx >= 0 {
		return entryID[idx+1:]
	}
	return entryID
}
