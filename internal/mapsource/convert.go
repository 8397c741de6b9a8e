package mapsource

import (
	"fmt"
	"strings"

	"tactics-engine/internal/scenario"
)

// unmarshalFunc abstracts over json.Unmarshal/yaml.Unmarshal so convert can
// decode an externally-referenced tileset document with whichever codec the
// top-level document itself used.
type unmarshalFunc func([]byte, any) error

// convert walks a decoded Tiled document and produces a scenario.Document:
// blocked tiles from GID properties, spawn objects into units, and
// hazard/objective markers into raw hazard_routines/objectives blocks.
func convert(doc *Document, loader SourceLoader, unmarshal unmarshalFunc) (*scenario.Document, error) {
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("mapsource: width and height must be positive")
	}
	if doc.TileWidth <= 0 || doc.TileHeight <= 0 {
		return nil, fmt.Errorf("mapsource: tilewidth and tileheight must be positive")
	}

	blockedGIDs, err := resolveBlockedGIDs(doc.Tilesets, loader, unmarshal)
	if err != nil {
		return nil, err
	}

	out := &scenario.Document{
		Map: scenario.MapDocument{Width: doc.Width, Height: doc.Height},
	}

	props := propertyMap(doc.Properties)
	battleID, _ := props["battleId"].(string)
	if strings.TrimSpace(battleID) == "" {
		return nil, fmt.Errorf("mapsource: map-level property %q is required and must be non-empty", "battleId")
	}
	out.BattleID = battleID
	out.Seed = propUint32(props, "seed", 0)
	out.EnginePhase = propInt(props, "enginePhase", 7)

	for _, layer := range doc.Layers {
		switch layer.Type {
		case "tilelayer":
			applyBlockedTiles(out, layer, doc.Width, blockedGIDs)
		case "objectgroup":
			if err := applyObjectGroup(out, layer, doc.TileWidth, doc.TileHeight); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// resolveBlockedGIDs computes the set of GIDs whose tile carries a true
// "blocked" property, across every tileset (inline or externally
// referenced, resolved relative to the map via loader).
func resolveBlockedGIDs(refs []TilesetRef, loader SourceLoader, unmarshal unmarshalFunc) (map[int]bool, error) {
	blocked := make(map[int]bool)
	for _, ref := range refs {
		tiles := ref.Tiles
		if ref.Source != "" {
			if loader == nil {
				return nil, fmt.Errorf("mapsource: tileset %q is externally referenced but no loader was provided", ref.Source)
			}
			raw, err := loader(ref.Source)
			if err != nil {
				return nil, fmt.Errorf("mapsource: loading tileset %q: %w", ref.Source, err)
			}
			var external externalTileset
			if err := unmarshal(raw, &external); err != nil {
				return nil, fmt.Errorf("mapsource: decoding tileset %q: %w", ref.Source, err)
			}
			tiles = external.Tiles
		}
		for _, tile := range tiles {
			props := propertyMap(tile.Properties)
			if b, ok := props["blocked"].(bool); ok && b {
				blocked[ref.FirstGID+tile.ID] = true
			}
		}
	}
	return blocked, nil
}

// applyBlockedTiles scans a tilelayer's row-major GID data, skipping GID 0,
// and appends every blocked tile's (x,y) to the map document.
func applyBlockedTiles(out *scenario.Document, layer Layer, width int, blockedGIDs map[int]bool) {
	for i, gid := range layer.Data {
		if gid == 0 || !blockedGIDs[gid] {
			continue
		}
		x := i % width
		y := i / width
		out.Map.Blocked = append(out.Map.Blocked, [2]int{x, y})
	}
}

// applyObjectGroup dispatches an objectgroup's objects by the layer's name:
// "Spawns" become units, "Hazards" become hazard_routines entries,
// "Objectives" become objectives entries.
func applyObjectGroup(out *scenario.Document, layer Layer, tileWidth, tileHeight int) error {
	switch layer.Name {
	case "Spawns":
		for _, obj := range layer.Objects {
			if obj.Type != "spawn" {
				continue
			}
			unit, err := spawnToUnit(obj, tileWidth, tileHeight)
			if err != nil {
				return err
			}
			out.Units = append(out.Units, unit)
		}
	case "Hazards":
		for _, obj := range layer.Objects {
			out.HazardRoutines = append(out.HazardRoutines, objectProperties(obj, tileWidth, tileHeight))
		}
	case "Objectives":
		for _, obj := range layer.Objects {
			out.Objectives = append(out.Objectives, objectProperties(obj, tileWidth, tileHeight))
		}
	}
	return nil
}

// spawnToUnit converts a "spawn" object into a unit document: its pixel
// position maps to a tile by integer division on tilewidth/tileheight, and
// its properties supply every other unit field (id, team, hp, ...).
func spawnToUnit(obj Object, tileWidth, tileHeight int) (scenario.UnitDocument, error) {
	props := propertyMap(obj.Properties)
	id, _ := props["id"].(string)
	if id == "" {
		id = obj.Name
	}
	team, _ := props["team"].(string)
	if strings.TrimSpace(id) == "" || strings.TrimSpace(team) == "" {
		return scenario.UnitDocument{}, fmt.Errorf("mapsource: spawn object missing id or team")
	}

	return scenario.UnitDocument{
		ID:         id,
		Team:       team,
		HP:         propInt(props, "hp", 1),
		MaxHP:      propInt(props, "max_hp", 0),
		Position:   [2]int{int(obj.X) / tileWidth, int(obj.Y) / tileHeight},
		Initiative: propInt(props, "initiative", 0),
		AttackMod:  propInt(props, "attack_mod", 0),
		AC:         propInt(props, "ac", 0),
		Damage:     propString(props, "damage", ""),
		Fortitude:  propInt(props, "fortitude", 0),
		Reflex:     propInt(props, "reflex", 0),
		Will:       propInt(props, "will", 0),
	}, nil
}

// objectProperties flattens a Hazards/Objectives object into a raw
// hazard_routine/objective block: its own property map, plus the object's
// own tile position under "x"/"y" when not already set by a property.
func objectProperties(obj Object, tileWidth, tileHeight int) map[string]any {
	out := make(map[string]any, len(obj.Properties)+2)
	for _, p := range obj.Properties {
		out[p.Name] = p.Value
	}
	if _, ok := out["x"]; !ok {
		out["x"] = int(obj.X) / tileWidth
	}
	if _, ok := out["y"]; !ok {
		out["y"] = int(obj.Y) / tileHeight
	}
	return out
}

func propertyMap(props []Property) map[string]any {
	out := make(map[string]any, len(props))
	for _, p := range props {
		out[p.Name] = p.Value
	}
	return out
}

func propInt(props map[string]any, key string, fallback int) int {
	switch v := props[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func propUint32(props map[string]any, key string, fallback uint32) uint32 {
	switch v := props[key].(type) {
	case int:
		return uint32(v)
	case float64:
		return uint32(v)
	default:
		return fallback
	}
}

func propString(props map[string]any, key string, fallback string) string {
	if s, ok := props[key].(string); ok {
		return s
	}
	return fallback
}
