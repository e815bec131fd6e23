// Package bundle reads and writes the game's master data bundle.
package bundle

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Bundle maps section names to their raw content. A section is either text
// (newline-separated CSV rows) or a list of raw JSON elements.
type Bundle struct {
	keys  []string
	text  map[string]string
	lists map[string][]string
}

// New returns an empty bundle.
func New() *Bundle {
	return &Bundle{
		text:  make(map[string]string),
		lists: make(map[string][]string),
	}
}

// Keys returns the section names in first-seen order.
func (b *Bundle) Keys() []string { return b.keys }

// Len returns the number of sections.
func (b *Bundle) Len() int { return len(b.keys) }

// Has reports whether the bundle carries section name.
func (b *Bundle) Has(name string) bool {
	_, t := b.text[name]
	_, l := b.lists[name]
	return t || l
}

// Text returns a text section, or "" if absent.
func (b *Bundle) Text(name string) string { return b.text[name] }

// List returns a list section's raw JSON elements. A text section holding a
// JSON array (as written by Plaintext) is read as a list too.
func (b *Bundle) List(name string) []string {
	if l, ok := b.lists[name]; ok {
		return l
	}
	t := strings.TrimSpace(b.text[name])
	if !strings.HasPrefix(t, "[") || !gjson.Valid(t) {
		return nil
	}
	var out []string
	gjson.Parse(t).ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.Raw)
		return true
	})
	return out
}

// Rows returns the non-empty lines of a text section.
func (b *Bundle) Rows(section string) []string {
	t, ok := b.text[section]
	if !ok {
		return nil
	}
	lines := strings.Split(t, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, strings.TrimRight(l, "\r"))
		}
	}
	return out
}

// SetText stores a text section, replacing any previous content.
func (b *Bundle) SetText(name, value string) {
	b.touch(name)
	delete(b.lists, name)
	b.text[name] = value
}

// SetList stores a list section, replacing any previous content.
func (b *Bundle) SetList(name string, elems []string) {
	b.touch(name)
	delete(b.text, name)
	b.lists[name] = elems
}

func (b *Bundle) touch(name string) {
	if !b.Has(name) {
		b.keys = append(b.keys, name)
	}
}

// Merge appends other's sections to b. Text is concatenated, separated by a
// newline when the existing text lacks one; lists are extended. A section
// changing kind between files is replaced by the later kind.
func (b *Bundle) Merge(other *Bundle) {
	for _, k := range other.keys {
		if l, ok := other.lists[k]; ok {
			if prev, ok := b.lists[k]; ok {
				b.lists[k] = append(prev, l...)
				continue
			}
			b.SetList(k, append([]string(nil), l...))
			continue
		}
		t := other.text[k]
		prev, ok := b.text[k]
		if !ok {
			b.SetText(k, t)
			continue
		}
		if prev != "" && !strings.HasSuffix(prev, "\n") {
			prev += "\n"
		}
		b.text[k] = prev + t
	}
}
