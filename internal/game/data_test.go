package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
}

func TestLoadContentStore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "monster.json", `{"data":[{"id":1,"hp":100,"attackPower":10,"gold":5,"score":2,"speed":1}]}`)
	writeFile(t, dir, "stage.json", `{"data":[{"id":101,"monster_id":1},{"id":101,"monster_id":2}]}`)

	cs := LoadContentStore(dir)

	tmpl, ok := cs.FindMonsterTemplate(1)
	require.True(t, ok)
	assert.Equal(t, MonsterTemplate{ID: 1, HP: 100, AttackPower: 10, Gold: 5, Score: 2, Speed: 1}, tmpl)

	_, ok = cs.FindMonsterTemplate(2)
	assert.False(t, ok)

	assert.True(t, cs.IsSpawnAllowed(101, 1))
	assert.True(t, cs.IsSpawnAllowed(101, 2))
	assert.False(t, cs.IsSpawnAllowed(102, 1))
}

func TestLoadContentStoreMissingFilesYieldEmptyTables(t *testing.T) {
	cs := LoadContentStore(filepath.Join(t.TempDir(), "nope"))

	assert.Equal(t, 0, cs.MonsterCount())
	assert.False(t, cs.IsSpawnAllowed(101, 1))
}

func TestLoadContentStoreMalformedFileDegradesOnlyThatTable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "monster.json", `{"data": [ {"id": 1, `)
	writeFile(t, dir, "stage.json", `{"data":[{"id":101,"monster_id":1}]}`)

	cs := LoadContentStore(dir)

	assert.Equal(t, 0, cs.MonsterCount())
	assert.True(t, cs.IsSpawnAllowed(101, 1))
}

func TestLoadContentStoreWithoutDataArray(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "monster.json", `{"monsters":[]}`)

	cs := LoadContentStore(dir)
	assert.Equal(t, 0, cs.MonsterCount())
}

func TestNewContentStoreFirstTemplateWins(t *testing.T) {
	cs := NewContentStore([]MonsterTemplate{
		{ID: 7, HP: 1},
		{ID: 7, HP: 2},
	}, nil)

	tmpl, ok := cs.FindMonsterTemplate(7)
	require.True(t, ok)
	assert.Equal(t, 1, tmpl.HP)
	assert.Equal(t, 1, cs.MonsterCount())
}

func TestShippedContentFiles(t *testing.T) {
	cs := LoadContentStore(filepath.Join("..", "..", "data"))

	tmpl, ok := cs.FindMonsterTemplate(1)
	require.True(t, ok)
	assert.Equal(t, 100, tmpl.HP)
	assert.True(t, cs.IsSpawnAllowed(DefaultStageID, 1))
}
