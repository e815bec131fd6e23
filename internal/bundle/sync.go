package bundle

import (
	"github.com/tidwall/gjson"
)

// SyncSection is the section holding JSON-shaped tables.
const SyncSection = "masterSyncData"

// SyncTable is one table of masterSyncData with rows merged by id.
type SyncTable struct {
	Name string
	ids  []string
	rows map[string]map[string]string
}

// Rows returns the merged objects in first-seen id order. Values are the
// JSON scalars as strings; nested values keep their raw JSON.
func (t *SyncTable) Rows() []map[string]string {
	out := make([]map[string]string, 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, t.rows[id])
	}
	return out
}

// Len returns the number of distinct ids.
func (t *SyncTable) Len() int { return len(t.ids) }

// SyncTables merges every masterSyncData element by table name, then by
// row id; later keys overwrite earlier ones for the same id.
func (b *Bundle) SyncTables() map[string]*SyncTable {
	tables := make(map[string]*SyncTable)
	for _, elem := range b.List(SyncSection) {
		e := gjson.Parse(elem)
		name := e.Get("tableName").String()
		if name == "" {
			continue
		}
		t, ok := tables[name]
		if !ok {
			t = &SyncTable{Name: name, rows: make(map[string]map[string]string)}
			tables[name] = t
		}
		e.Get("data").ForEach(func(_, row gjson.Result) bool {
			id := row.Get("id").String()
			merged, ok := t.rows[id]
			if !ok {
				merged = make(map[string]string)
				t.rows[id] = merged
				t.ids = append(t.ids, id)
			}
			row.ForEach(func(k, v gjson.Result) bool {
				if v.IsObject() || v.IsArray() {
					merged[k.String()] = v.Raw
				} else {
					merged[k.String()] = v.String()
				}
				return true
			})
			return true
		})
	}
	return tables
}

// SyncTable returns the merged rows of one sync table, or nil.
func (b *Bundle) SyncTable(name string) []map[string]string {
	t, ok := b.SyncTables()[name]
	if !ok {
		return nil
	}
	return t.Rows()
}
