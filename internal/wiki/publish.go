package wiki

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fkgwiki/nazuna/internal/scripting"
	"go.uber.org/zap"
)

// Archive remembers the last published body of each page.
type Archive interface {
	Changed(ctx context.Context, title, body string) (bool, error)
}

// Publisher checks rendered pages and writes them to a directory.
type Publisher struct {
	dir     string
	engine  *scripting.Engine
	archive Archive
	log     *zap.Logger
}

// NewPublisher returns a publisher writing into dir. archive may be nil, in
// which case every page counts as changed.
func NewPublisher(dir string, engine *scripting.Engine, archive Archive, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{dir: dir, engine: engine, archive: archive, log: log}
}

// Publish writes every page and returns the subset whose body changed,
// keyed by title. Lua pages that fail to run are not written and abort the
// publish.
func (p *Publisher) Publish(ctx context.Context, pages []Page) (map[string]string, error) {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	changed := make(map[string]string)
	for _, page := range pages {
		if page.Lua && p.engine != nil {
			if err := p.engine.Validate(page.Title, page.Body); err != nil {
				return nil, fmt.Errorf("check %s: %w", page.Title, err)
			}
		}
		path := filepath.Join(p.dir, page.FileName())
		if err := os.WriteFile(path, []byte(page.Body), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}

		diff := true
		if p.archive != nil {
			var err error
			if diff, err = p.archive.Changed(ctx, page.Title, page.Body); err != nil {
				return nil, err
			}
		}
		if diff {
			changed[page.Title] = page.Body
		}
		p.log.Debug("page written",
			zap.String("title", page.Title),
			zap.String("path", path),
			zap.Bool("changed", diff),
		)
	}
	return changed, nil
}

// ReadEquipmentNames loads a previously written Module:Equipment/Names page
// from dir. A missing page yields nil.
func ReadEquipmentNames(engine *scripting.Engine, dir string) (map[string]string, error) {
	page := Page{Title: TitleEquipmentNames, Lua: true}
	src, err := os.ReadFile(filepath.Join(dir, page.FileName()))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return engine.StringMap(page.Title, string(src))
}
