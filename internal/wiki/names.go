package wiki

import (
	"fmt"
	"os"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Names maps Japanese names to the English names editors chose.
type Names struct {
	Knights   map[string]string `yaml:"knights"`
	Equipment map[string]string `yaml:"equipment"`
}

// LoadNames reads the YAML overlay. A missing file yields an empty overlay.
func LoadNames(path string) (*Names, error) {
	n := &Names{}
	if path == "" {
		return n.normalize(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return n.normalize(), nil
		}
		return nil, fmt.Errorf("read names %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, n); err != nil {
		return nil, fmt.Errorf("parse names %s: %w", path, err)
	}
	return n.normalize(), nil
}

// Merge adds entries from a page already on the wiki. Existing overlay
// entries win; empty translations never replace a known one.
func (n *Names) Merge(equipment map[string]string) {
	if n.Equipment == nil {
		n.Equipment = make(map[string]string)
	}
	for jp, en := range equipment {
		jp = norm.NFC.String(jp)
		if cur := n.Equipment[jp]; cur == "" && en != "" {
			n.Equipment[jp] = en
		}
	}
}

// normalize keys to NFC so names typed on different systems compare equal
// to the game's strings.
func (n *Names) normalize() *Names {
	n.Knights = nfcKeys(n.Knights)
	n.Equipment = nfcKeys(n.Equipment)
	return n
}

func nfcKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[norm.NFC.String(k)] = v
	}
	return out
}
