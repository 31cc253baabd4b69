// Package game holds the content tables and the mutable game state
package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"td-game/pkg/logger"
)

// Content is the read-only lookup surface used by the engine
type Content interface {
	FindMonsterTemplate(id int) (MonsterTemplate, bool)
	IsSpawnAllowed(stageID, monsterID int) bool
}

type stageKey struct {
	stage   int
	monster int
}

// ContentStore holds monster templates and stage rules loaded at startup
type ContentStore struct {
	monsters map[int]MonsterTemplate
	stages   map[stageKey]struct{}
}

// NewContentStore builds a store from in-memory tables. The first template
// with a given id wins.
func NewContentStore(monsters []MonsterTemplate, rules []StageRule) *ContentStore {
	cs := &ContentStore{
		monsters: make(map[int]MonsterTemplate, len(monsters)),
		stages:   make(map[stageKey]struct{}, len(rules)),
	}
	for _, m := range monsters {
		if _, dup := cs.monsters[m.ID]; dup {
			logger.Game.Warn("Duplicate monster template %d ignored", m.ID)
			continue
		}
		cs.monsters[m.ID] = m
	}
	for _, r := range rules {
		cs.stages[stageKey{r.StageID, r.MonsterID}] = struct{}{}
	}
	return cs
}

// LoadContentStore reads monster.json and stage.json from dataDir. A file
// that is missing or malformed yields an empty table and a warning.
func LoadContentStore(dataDir string) *ContentStore {
	var monsters []MonsterTemplate
	if err := loadTable(filepath.Join(dataDir, "monster.json"), &monsters); err != nil {
		logger.Game.Warn("Failed to load monster data: %v", err)
		monsters = nil
	}

	var rules []StageRule
	if err := loadTable(filepath.Join(dataDir, "stage.json"), &rules); err != nil {
		logger.Game.Warn("Failed to load stage data: %v", err)
		rules = nil
	}

	cs := NewContentStore(monsters, rules)
	logger.Game.Info("Content loaded: %d monster templates, %d stage rules", len(cs.monsters), len(cs.stages))
	return cs
}

// loadTable decodes the "data" array of a content file into out
func loadTable(path string, out interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(file.Data) == 0 {
		return fmt.Errorf("%s has no data array", path)
	}
	if err := json.Unmarshal(file.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", path, err)
	}
	return nil
}

// FindMonsterTemplate looks up a template by id
func (cs *ContentStore) FindMonsterTemplate(id int) (MonsterTemplate, bool) {
	m, ok := cs.monsters[id]
	return m, ok
}

// IsSpawnAllowed reports whether a stage rule pairs stageID with monsterID
func (cs *ContentStore) IsSpawnAllowed(stageID, monsterID int) bool {
	_, ok := cs.stages[stageKey{stageID, monsterID}]
	return ok
}

// MonsterCount returns the number of loaded templates
func (cs *ContentStore) MonsterCount() int {
	return len(cs.monsters)
}
