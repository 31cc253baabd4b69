package game

import "errors"

// MonsterTemplate is the static definition of a monster's base stats
type MonsterTemplate struct {
	ID          int `json:"id"`
	HP          int `json:"hp"`
	AttackPower int `json:"attackPower"`
	Gold        int `json:"gold"`
	Score       int `json:"score"`
	Speed       int `json:"speed"`
}

// StageRule allows a monster to spawn on a stage
type StageRule struct {
	StageID   int `json:"id"`
	MonsterID int `json:"monster_id"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ActiveMonster is a live monster instance. ID is the template id and is
// shared by every instance of the same template.
type ActiveMonster struct {
	ID          int      `json:"id"`
	InstanceID  string   `json:"instanceId"`
	HP          int      `json:"hp"`
	AttackPower int      `json:"attackPower"`
	Position    Position `json:"position"`
	Gold        int      `json:"gold"`
	Score       int      `json:"score"`
	Speed       int      `json:"speed"`
}

type Base struct {
	HP int `json:"hp"`
}

type Tower struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
}

// GameState is the mutable record of one game. Gold and Score only grow.
type GameState struct {
	Monsters       []ActiveMonster
	Gold           int
	Score          int
	CurrentStageID int
	Timestamp      int64 // unix millis of the last mutation
	Base           Base
	Towers         []Tower
	MonsterLevel   int
}

// StateSnapshot is the state sync payload
type StateSnapshot struct {
	UserGold     int             `json:"userGold"`
	BaseHP       int             `json:"baseHp"`
	MonsterLevel int             `json:"monsterLevel"`
	Score        int             `json:"score"`
	Towers       []Tower         `json:"towers"`
	Monsters     []ActiveMonster `json:"monsters"`
	Timestamp    int64           `json:"timestamp"`
}

// Rejections returned by the engine
var (
	ErrStageMismatch    = errors.New("monster is not allowed on the current stage")
	ErrTemplateNotFound = errors.New("monster template not found")
	ErrMonsterNotFound  = errors.New("active monster not found")
)

// Defaults applied to a new GameState
const (
	DefaultStageID      = 101
	DefaultBaseHP       = 100
	DefaultMonsterLevel = 1
)
