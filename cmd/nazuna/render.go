package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fkgwiki/nazuna/internal/data"
	"github.com/fkgwiki/nazuna/internal/persist"
	"github.com/fkgwiki/nazuna/internal/scripting"
	"github.com/fkgwiki/nazuna/internal/wiki"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

var (
	renderDir    string
	renderLuaLib string
	renderList   bool
)

var renderCmd = &cobra.Command{
	Use:   "render [title...]",
	Short: "Render wiki data modules",
	Long: `Renders the named Module: pages, or all of them, into the output
directory. Every page is run through Lua before it is written. When a
database is configured, changed pages and a run summary are archived.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderDir, "dir", "d", "", "output directory (default from config)")
	renderCmd.Flags().StringVar(&renderLuaLib, "lua-lib", "", "directory of helper modules pages may require")
	renderCmd.Flags().BoolVar(&renderList, "list", false, "list page titles and exit")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	if renderList {
		for _, t := range wiki.Titles() {
			fmt.Fprintln(out, t)
		}
		return nil
	}

	m, err := loadMaster()
	if err != nil {
		return err
	}
	dir := renderDir
	if dir == "" {
		dir = cfg.Output.Dir
	}

	engine, err := scripting.NewEngine(renderLuaLib, log)
	if err != nil {
		return fmt.Errorf("lua: %w", err)
	}
	defer engine.Close()

	names, err := wiki.LoadNames(cfg.Wiki.NamesFile)
	if err != nil {
		return err
	}
	existing, err := wiki.ReadEquipmentNames(engine, dir)
	if err != nil {
		log.Warn("ignoring previous equipment names page", zap.Error(err))
	}
	names.Merge(existing)

	pages, err := wiki.NewRenderer(m, names).Render(args...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	var archive wiki.Archive
	db, err := persist.NewDB(ctx, cfg.Database, log)
	switch {
	case errors.Is(err, persist.ErrNoDSN):
		db = nil
	case err != nil:
		return fmt.Errorf("database: %w", err)
	default:
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		archive = persist.NewPageRepo(db)
	}

	changed, err := wiki.NewPublisher(dir, engine, archive, log).Publish(ctx, pages)
	if err != nil {
		return err
	}

	printSection("Render")
	printStat("Knights", len(m.Knights()))
	printStat("Diagnostics", len(m.Diagnostics().Entries()))
	printStat("Pages", len(pages))
	printStat("Changed", len(changed))
	for _, p := range pages {
		if _, ok := changed[p.Title]; ok {
			printOK(p.Title)
		}
	}

	if db != nil {
		run := persist.RunRow{
			InputDigest: inputDigest(),
			Knights:     len(m.Knights()),
			Diagnostics: len(m.Diagnostics().Entries()),
			Pages:       len(pages),
			Changed:     len(changed),
		}
		if err := persist.NewRunRepo(db).Record(ctx, run, changed); err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		printOK("Archive updated")
	}
	return nil
}

// inputDigest fingerprints the raw input files in order.
func inputDigest() []byte {
	h, _ := blake2b.New256(nil)
	for _, f := range inputFiles() {
		raw, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		h.Write([]byte(strings.TrimSpace(f)))
		h.Write(raw)
	}
	return h.Sum(nil)
}

// knightOrFail resolves a knight and explains lookup failures briefly.
func knightOrFail(m *data.Master, nameOrID string) (*data.Knight, error) {
	k, err := m.Knight(nameOrID)
	switch {
	case errors.Is(err, data.ErrKnightNotFound):
		return nil, fmt.Errorf("%q matches no knight", nameOrID)
	case errors.Is(err, data.ErrAmbiguousKnight):
		return nil, fmt.Errorf("%q matches several knights; check the data", nameOrID)
	}
	return k, err
}
