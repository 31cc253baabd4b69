package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var goblin = MonsterTemplate{ID: 1, HP: 100, AttackPower: 10, Gold: 5, Score: 2, Speed: 1}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	content := NewContentStore(
		[]MonsterTemplate{goblin, {ID: 2, HP: 150, AttackPower: 15, Gold: 8, Score: 3, Speed: 1}},
		[]StageRule{{StageID: 101, MonsterID: 1}, {StageID: 101, MonsterID: 2}, {StageID: 101, MonsterID: 9}},
	)
	seq := 0
	return NewEngine(content, Options{
		StageID: 101,
		Now:     func() time.Time { return time.UnixMilli(1700000000000) },
		NewID: func() string {
			seq++
			return fmt.Sprintf("m-%d", seq)
		},
	})
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(NewContentStore(nil, nil), Options{})
	st := e.State()

	assert.Equal(t, DefaultStageID, st.CurrentStageID)
	assert.Equal(t, DefaultBaseHP, st.Base.HP)
	assert.Equal(t, DefaultMonsterLevel, st.MonsterLevel)
	assert.NotNil(t, st.Towers)
	assert.Empty(t, st.Monsters)
}

func TestSpawnMonsterCopiesTemplate(t *testing.T) {
	e := newTestEngine(t)

	m, err := e.SpawnMonster(1, Position{X: 5, Y: 5})
	require.NoError(t, err)

	assert.Equal(t, ActiveMonster{
		ID: 1, InstanceID: "m-1", HP: 100, AttackPower: 10,
		Position: Position{X: 5, Y: 5}, Gold: 5, Score: 2, Speed: 1,
	}, *m)
	require.Len(t, e.State().Monsters, 1)
	assert.Equal(t, *m, e.State().Monsters[0])
	assert.Equal(t, int64(1700000000000), e.State().Timestamp)
}

func TestSpawnMonsterStageMismatch(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.SpawnMonster(3, Position{})
	assert.ErrorIs(t, err, ErrStageMismatch)
	assert.Empty(t, e.State().Monsters)
	assert.Zero(t, e.State().Timestamp)
}

func TestSpawnMonsterTemplateMissing(t *testing.T) {
	e := newTestEngine(t)

	// stage rule exists for 9 but no template
	_, err := e.SpawnMonster(9, Position{})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Empty(t, e.State().Monsters)
}

func TestSpawnAllowsDuplicateTemplateIDs(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.SpawnMonster(1, Position{X: 1})
	require.NoError(t, err)
	_, err = e.SpawnMonster(1, Position{X: 2})
	require.NoError(t, err)

	require.Len(t, e.State().Monsters, 2)
	assert.NotEqual(t, e.State().Monsters[0].InstanceID, e.State().Monsters[1].InstanceID)
}

func TestKillMonsterCreditsRewards(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.SpawnMonster(1, Position{X: 5, Y: 5})
	require.NoError(t, err)

	m, err := e.KillMonster(1)
	require.NoError(t, err)

	assert.Equal(t, 1, m.ID)
	assert.Empty(t, e.State().Monsters)
	assert.Equal(t, 5, e.State().Gold)
	assert.Equal(t, 2, e.State().Score)
}

func TestKillMonsterRemovesFirstMatchKeepingOrder(t *testing.T) {
	e := newTestEngine(t)
	for _, spawn := range []struct {
		id int
		x  float64
	}{{1, 1}, {2, 2}, {1, 3}, {2, 4}} {
		_, err := e.SpawnMonster(spawn.id, Position{X: spawn.x})
		require.NoError(t, err)
	}

	m, err := e.KillMonster(1)
	require.NoError(t, err)
	assert.Equal(t, "m-1", m.InstanceID)

	var xs []float64
	for _, am := range e.State().Monsters {
		xs = append(xs, am.Position.X)
	}
	assert.Equal(t, []float64{2, 3, 4}, xs)
}

func TestKillMonsterNotFoundLeavesStateUnchanged(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.SpawnMonster(2, Position{})
	require.NoError(t, err)
	before := e.Snapshot()

	_, err = e.KillMonster(1)
	assert.ErrorIs(t, err, ErrMonsterNotFound)
	assert.Equal(t, before, e.Snapshot())
}

func TestSnapshotIsACopy(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.SpawnMonster(1, Position{})
	require.NoError(t, err)

	snap := e.Snapshot()
	snap.Monsters[0].HP = 0

	assert.Equal(t, 100, e.State().Monsters[0].HP)
	assert.Equal(t, DefaultBaseHP, snap.BaseHP)
	assert.Equal(t, DefaultMonsterLevel, snap.MonsterLevel)
	assert.Empty(t, snap.Towers)
}
