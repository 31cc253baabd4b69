// Package i18n holds the localized texts written back to clients
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is used when a requested locale has no catalog.
const BaseLocale = "en-US"

// Key identifies one response text.
type Key string

const (
	StageMismatch      Key = "monster.stage_mismatch"
	MonsterDataMissing Key = "monster.data_not_found"
	MonsterSpawned     Key = "monster.spawned"
	MonsterNotFound    Key = "monster.not_found"
	DeathProcessed     Key = "monster.death_processed"
	StateSyncFailed    Key = "state.sync_failed"
	DecodeFailed       Key = "packet.decode_failed"
	HandlerFault       Key = "packet.handler_fault"
)

// Keys lists every key a locale catalog must define.
var Keys = []Key{
	StageMismatch,
	MonsterDataMissing,
	MonsterSpawned,
	MonsterNotFound,
	DeathProcessed,
	StateSyncFailed,
	DecodeFailed,
	HandlerFault,
}

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

// Bundle is a set of locale catalogs.
type Bundle struct {
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads every locales/<locale>/*.yaml file from fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	builder := catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale)))
	seen := map[string]language.Tag{}

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}

		locale := strings.TrimSpace(file.Locale)
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: parse locale %q: %w", path, locale, err)
		}
		for _, key := range Keys {
			if _, ok := file.Messages[string(key)]; !ok {
				return nil, fmt.Errorf("catalog %s: missing key %q", path, key)
			}
		}
		for key, text := range file.Messages {
			if err := builder.SetString(tag, key, text); err != nil {
				return nil, fmt.Errorf("catalog %s: set %q: %w", path, key, err)
			}
		}
		seen[tag.String()] = tag
	}

	base, ok := seen[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	// The matcher falls back to its first tag.
	tags := []language.Tag{base}
	names := make([]string, 0, len(seen))
	for name := range seen {
		if name != BaseLocale {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		tags = append(tags, seen[name])
	}

	return &Bundle{
		builder: builder,
		tags:    tags,
		matcher: language.NewMatcher(tags),
	}, nil
}

// Locales returns the available locales, base locale first.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.tags))
	for _, tag := range b.tags {
		out = append(out, tag.String())
	}
	return out
}

// Printer returns a printer for the closest available locale.
func (b *Bundle) Printer(locale string) *Printer {
	_, index, _ := b.matcher.Match(language.Make(locale))
	tag := b.tags[index]
	return &Printer{
		locale: tag.String(),
		p:      message.NewPrinter(tag, message.Catalog(b.builder)),
	}
}

// Printer renders keys in one locale.
type Printer struct {
	locale string
	p      *message.Printer
}

// Locale returns the locale the printer resolved to.
func (p *Printer) Locale() string {
	return p.locale
}

// Text renders key with args.
func (p *Printer) Text(key Key, args ...interface{}) string {
	return p.p.Sprintf(string(key), args...)
}
