package game

import (
	"time"

	"github.com/google/uuid"

	"td-game/pkg/logger"
)

// Options configures a new Engine. Zero StageID or BaseHP selects the
// package default; config.Load never passes zero.
type Options struct {
	StageID int
	BaseHP  int
	Now     func() time.Time
	NewID   func() string
}

// Engine applies spawn and death events to a GameState.
// It is not safe for concurrent use; callers serialize access.
type Engine struct {
	content Content
	state   *GameState
	now     func() time.Time
	newID   func() string
	logger  *logger.Logger
}

// NewEngine creates an engine with a fully initialized state
func NewEngine(content Content, opts Options) *Engine {
	if opts.StageID == 0 {
		opts.StageID = DefaultStageID
	}
	if opts.BaseHP == 0 {
		opts.BaseHP = DefaultBaseHP
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	return &Engine{
		content: content,
		state: &GameState{
			Monsters:       make([]ActiveMonster, 0),
			CurrentStageID: opts.StageID,
			Base:           Base{HP: opts.BaseHP},
			Towers:         make([]Tower, 0),
			MonsterLevel:   DefaultMonsterLevel,
		},
		now:    opts.Now,
		newID:  opts.NewID,
		logger: logger.Game,
	}
}

// SpawnMonster validates monsterID against the current stage and the
// templates, then appends a new instance at pos.
func (e *Engine) SpawnMonster(monsterID int, pos Position) (*ActiveMonster, error) {
	if !e.content.IsSpawnAllowed(e.state.CurrentStageID, monsterID) {
		return nil, ErrStageMismatch
	}

	tmpl, ok := e.content.FindMonsterTemplate(monsterID)
	if !ok {
		return nil, ErrTemplateNotFound
	}

	monster := ActiveMonster{
		ID:          tmpl.ID,
		InstanceID:  e.newID(),
		HP:          tmpl.HP,
		AttackPower: tmpl.AttackPower,
		Position:    pos,
		Gold:        tmpl.Gold,
		Score:       tmpl.Score,
		Speed:       tmpl.Speed,
	}

	e.state.Monsters = append(e.state.Monsters, monster)
	e.touch()

	e.logger.Info("Monster %d spawned (hp: %d, attack: %d)", monster.ID, monster.HP, monster.AttackPower)
	return &monster, nil
}

// KillMonster removes the first active instance of monsterID and credits
// its gold and score.
func (e *Engine) KillMonster(monsterID int) (*ActiveMonster, error) {
	index := -1
	for i := range e.state.Monsters {
		if e.state.Monsters[i].ID == monsterID {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrMonsterNotFound
	}

	monster := e.state.Monsters[index]
	e.state.Monsters = append(e.state.Monsters[:index], e.state.Monsters[index+1:]...)
	e.state.Gold += monster.Gold
	e.state.Score += monster.Score
	e.touch()

	e.logger.Info("Monster %d died (gold: +%d, score: +%d)", monster.ID, monster.Gold, monster.Score)
	return &monster, nil
}

// Snapshot copies the state into a sync payload
func (e *Engine) Snapshot() StateSnapshot {
	monsters := make([]ActiveMonster, len(e.state.Monsters))
	copy(monsters, e.state.Monsters)
	towers := make([]Tower, len(e.state.Towers))
	copy(towers, e.state.Towers)

	return StateSnapshot{
		UserGold:     e.state.Gold,
		BaseHP:       e.state.Base.HP,
		MonsterLevel: e.state.MonsterLevel,
		Score:        e.state.Score,
		Towers:       towers,
		Monsters:     monsters,
		Timestamp:    e.state.Timestamp,
	}
}

// State exposes the underlying state for inspection
func (e *Engine) State() *GameState {
	return e.state
}

func (e *Engine) touch() {
	e.state.Timestamp = e.now().UnixMilli()
}
