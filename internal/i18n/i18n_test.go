package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCatalogs(t *testing.T) {
	b, err := LoadEmbedded()
	require.NoError(t, err)
	assert.Equal(t, []string{"en-US", "ko-KR"}, b.Locales())

	en := b.Printer("en-US")
	assert.Equal(t, "en-US", en.Locale())
	assert.Equal(t, "current stage is not valid for this monster", en.Text(StageMismatch))
	assert.Equal(t, "monster 1 spawn complete", en.Text(MonsterSpawned, "1"))
	assert.Equal(t, "monster 1 death processed", en.Text(DeathProcessed, "1"))

	ko := b.Printer("ko-KR")
	assert.Equal(t, "몬스터 1 생성 완료!", ko.Text(MonsterSpawned, "1"))
	assert.Equal(t, "몬스터를 찾을 수 없습니다.", ko.Text(MonsterNotFound))
}

func TestPrinterFallsBackToBaseLocale(t *testing.T) {
	b, err := LoadEmbedded()
	require.NoError(t, err)

	p := b.Printer("fr-FR")
	assert.Equal(t, BaseLocale, p.Locale())
	assert.Equal(t, "monster not found", p.Text(MonsterNotFound))

	assert.Equal(t, "ko-KR", b.Printer("ko").Locale())
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/ko-KR/messages.yaml": &fstest.MapFile{Data: completeCatalog("ko-KR")},
	}

	_, err := LoadFromFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base locale")
}

func TestLoadFromFSRejectsMissingKeys(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en-US/messages.yaml": &fstest.MapFile{Data: []byte("locale: en-US\nmessages:\n  monster.not_found: x\n")},
	}

	_, err := LoadFromFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing key")
}

func TestLoadFromFSEmpty(t *testing.T) {
	_, err := LoadFromFS(fstest.MapFS{})
	require.Error(t, err)
}

func completeCatalog(locale string) []byte {
	out := "locale: " + locale + "\nmessages:\n"
	for _, key := range Keys {
		out += "  " + string(key) + ": text\n"
	}
	return []byte(out)
}
