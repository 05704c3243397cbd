package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// DefaultLocale is used when a requested locale does not match any catalog.
const DefaultLocale = "ja"

// Catalog is a Translator backed by x/text message catalogs. Message files
// are flat YAML maps named after their BCP 47 tag (ja.yaml, en.yaml).
type Catalog struct {
	builder  *catalog.Builder
	keys     map[language.Tag]map[string]struct{}
	tags     []language.Tag
	matcher  language.Matcher
	fallback language.Tag

	mu       sync.Mutex
	printers map[language.Tag]*message.Printer
}

var _ Translator = (*Catalog)(nil)

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog built from the embedded locale files.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = LoadFS(embeddedLocales, "locales", DefaultLocale)
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for init-time wiring.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// LocalesFS exposes the embedded message files so callers can extend them.
func LocalesFS() fs.FS {
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		return embeddedLocales
	}
	return sub
}

// LoadFS reads every *.yaml file under dir. fallback names the locale used
// when matching fails and must be one of the loaded files.
func LoadFS(fsys fs.FS, dir, fallback string) (*Catalog, error) {
	if fsys == nil {
		return nil, fmt.Errorf("i18n: filesystem is nil")
	}
	fallbackTag, err := language.Parse(fallback)
	if err != nil {
		return nil, fmt.Errorf("i18n: parse fallback locale %q: %w", fallback, err)
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", dir, err)
	}

	messages := make(map[language.Tag]map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".yaml" {
			continue
		}
		tag, err := language.Parse(strings.TrimSuffix(name, ".yaml"))
		if err != nil {
			return nil, fmt.Errorf("i18n: locale file %s: %w", name, err)
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", name, err)
		}
		var table map[string]string
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", name, err)
		}
		messages[tag] = table
	}

	return New(messages, fallbackTag)
}

// New builds a catalog from in-memory message tables.
func New(messages map[language.Tag]map[string]string, fallback language.Tag) (*Catalog, error) {
	if _, ok := messages[fallback]; !ok {
		return nil, fmt.Errorf("i18n: fallback locale %s has no messages", fallback)
	}

	c := &Catalog{
		builder:  catalog.NewBuilder(catalog.Fallback(fallback)),
		keys:     make(map[language.Tag]map[string]struct{}, len(messages)),
		fallback: fallback,
		printers: make(map[language.Tag]*message.Printer),
	}

	// fallback first so the matcher prefers it on ties
	c.tags = append(c.tags, fallback)
	others := make([]language.Tag, 0, len(messages))
	for tag := range messages {
		if tag != fallback {
			others = append(others, tag)
		}
	}
	sort.Slice(others, func(i, j int) bool { return others[i].String() < others[j].String() })
	c.tags = append(c.tags, others...)

	for _, tag := range c.tags {
		keys := make(map[string]struct{}, len(messages[tag]))
		for key, msg := range messages[tag] {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			if err := c.builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("i18n: register %s/%s: %w", tag, key, err)
			}
			keys[key] = struct{}{}
		}
		c.keys[tag] = keys
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

// Locales lists the loaded locales, fallback first.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.tags))
	for _, tag := range c.tags {
		out = append(out, tag.String())
	}
	return out
}

// Match resolves a requested locale (e.g. "en-US", "ja_JP") to a loaded one.
func (c *Catalog) Match(locale string) language.Tag {
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if locale == "" {
		return c.fallback
	}
	_, index, confidence := c.matcher.Match(language.Make(locale))
	if confidence == language.No || index < 0 || index >= len(c.tags) {
		return c.fallback
	}
	return c.tags[index]
}

// Translate implements Translator. Keys missing from the matched locale fall
// back to the fallback locale before reporting ErrMissingTranslation.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	if c == nil {
		return "", ErrMissingTranslator
	}
	tag := c.Match(locale)
	if !c.has(tag, key) {
		if !c.has(c.fallback, key) {
			return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, tag, key)
		}
		tag = c.fallback
	}
	return c.printer(tag).Sprintf(key, args...), nil
}

func (c *Catalog) has(tag language.Tag, key string) bool {
	_, ok := c.keys[tag][key]
	return ok
}

func (c *Catalog) printer(tag language.Tag) *message.Printer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.printers[tag]; ok {
		return p
	}
	p := message.NewPrinter(tag, message.Catalog(c.builder))
	c.printers[tag] = p
	return p
}
