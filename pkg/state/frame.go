package state

import "strings"

const (
	MaxPreviousScenes    = 3
	MaxPreviousLocations = 5
)

// Pool groups candidate names by how often they should turn up.
type Pool struct {
	Common   []string `json:"common"`
	Uncommon []string `json:"uncommon"`
	Rare     []string `json:"rare"`
}

func (p Pool) Empty() bool {
	return len(p.Common) == 0 && len(p.Uncommon) == 0 && len(p.Rare) == 0
}

// All returns every name in the pool, common first.
func (p Pool) All() []string {
	out := make([]string, 0, len(p.Common)+len(p.Uncommon)+len(p.Rare))
	out = append(out, p.Common...)
	out = append(out, p.Uncommon...)
	return append(out, p.Rare...)
}

// ScenePools are the items and characters a scene may draw from.
type ScenePools struct {
	Items Pool `json:"item_pool"`
	NPCs  Pool `json:"npc_pool"`
}

// SceneFrame is the running picture of where the hiker is and what
// recently happened, used to keep generated scenes consistent.
type SceneFrame struct {
	Location          string     `json:"location"`
	SceneText         string     `json:"scene_text"`
	PreviousScenes    []string   `json:"previous_scenes"`
	PreviousLocations []string   `json:"previous_locations"`
	Pools             ScenePools `json:"pools"`
	ActiveNPCs        []string   `json:"active_npcs"`
}

// Advance moves the frame to a new scene, keeping a short history.
func (f *SceneFrame) Advance(location, sceneText string) {
	if f.SceneText != "" {
		f.PreviousScenes = appendCapped(f.PreviousScenes, f.SceneText, MaxPreviousScenes)
	}
	if f.Location != "" && location != "" && location != f.Location {
		f.PreviousLocations = appendCapped(f.PreviousLocations, f.Location, MaxPreviousLocations)
	}
	if location != "" {
		f.Location = location
	}
	f.SceneText = sceneText
	f.ActiveNPCs = nil
}

// RecentText joins the previous and current scene text, oldest first.
func (f *SceneFrame) RecentText() string {
	parts := append([]string{}, f.PreviousScenes...)
	if f.SceneText != "" {
		parts = append(parts, f.SceneText)
	}
	return strings.Join(parts, "\n\n")
}

// Mentions reports whether any of the words appear in the current scene.
func (f *SceneFrame) Mentions(words ...string) bool {
	text := strings.ToLower(f.SceneText + " " + f.Location)
	for _, w := range words {
		if strings.Contains(text, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

func appendCapped(list []string, v string, limit int) []string {
	list = append(list, v)
	if len(list) > limit {
		list = list[len(list)-limit:]
	}
	return list
}
