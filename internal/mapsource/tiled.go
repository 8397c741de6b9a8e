// Package mapsource ingests Tiled-style grid map documents (JSON or YAML)
// and converts them into a scenario.Document, per §6's "Tiled map ingestion"
// interface. Grounded on the teacher's themes.ThemePack (dual yaml/json
// struct tags on the same type, loaded via gopkg.in/yaml.v3), generalized
// from a decoration/loot theme file to a tile-and-object grid source with
// external tileset resolution.
package mapsource

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"tactics-engine/internal/scenario"
)

// SourceLoader resolves a tileset's "source" reference (relative to the map
// document's own location) to its raw bytes. Callers own the resolution
// strategy (filesystem, embedded FS, HTTP); mapsource never performs IO
// itself.
type SourceLoader func(relativePath string) ([]byte, error)

// Property is one entry of a Tiled "properties" array: {name, type, value}.
type Property struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Value any    `json:"value" yaml:"value"`
}

// Tile is one inline tileset tile entry, carrying its per-tile properties
// (the "blocked" property is the only one mapsource interprets).
type Tile struct {
	ID         int        `json:"id" yaml:"id"`
	Properties []Property `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// TilesetRef is one tilesets[] entry: either an inline tile list or a
// "source" pointing at an externally-referenced tileset document (itself
// shaped like {tiles: [...]}), resolved relative to the map.
type TilesetRef struct {
	FirstGID int    `json:"firstgid" yaml:"firstgid"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Tiles    []Tile `json:"tiles,omitempty" yaml:"tiles,omitempty"`
}

// externalTileset is the shape an externally-referenced tileset document is
// expected to have: just the tile list, keyed the same way as an inline one.
type externalTileset struct {
	Tiles []Tile `json:"tiles,omitempty" yaml:"tiles,omitempty"`
}

// Object is one objectgroup object: a spawn, hazard, or objective marker
// depending on which named layer it belongs to.
type Object struct {
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`
	Type       string     `json:"type,omitempty" yaml:"type,omitempty"`
	X          float64    `json:"x" yaml:"x"`
	Y          float64    `json:"y" yaml:"y"`
	Properties []Property `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Layer is either a tilelayer (row-major GID data) or an objectgroup
// (spawns/hazards/objectives), discriminated by Type.
type Layer struct {
	Type    string   `json:"type" yaml:"type"`
	Name    string   `json:"name" yaml:"name"`
	Data    []int    `json:"data,omitempty" yaml:"data,omitempty"`
	Objects []Object `json:"objects,omitempty" yaml:"objects,omitempty"`
}

// Document is the top-level Tiled grid source shape.
type Document struct {
	Width       int          `json:"width" yaml:"width"`
	Height      int          `json:"height" yaml:"height"`
	TileWidth   int          `json:"tilewidth" yaml:"tilewidth"`
	TileHeight  int          `json:"tileheight" yaml:"tileheight"`
	Layers      []Layer      `json:"layers" yaml:"layers"`
	Tilesets    []TilesetRef `json:"tilesets,omitempty" yaml:"tilesets,omitempty"`
	Properties  []Property   `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// ParseJSON decodes a Tiled JSON grid source and converts it to a
// scenario.Document, resolving any externally-referenced tilesets via
// loader.
func ParseJSON(raw []byte, loader SourceLoader) (*scenario.Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("mapsource: malformed json: %w", err)
	}
	return convert(&doc, loader, json.Unmarshal)
}

// ParseYAML decodes a Tiled YAML grid source and converts it to a
// scenario.Document, resolving any externally-referenced tilesets via
// loader.
func ParseYAML(raw []byte, loader SourceLoader) (*scenario.Document, error) {
	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("mapsource: malformed yaml: %w", err)
	}
	return convert(&doc, loader, yaml.Unmarshal)
}
