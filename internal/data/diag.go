package data

import (
	"go.uber.org/zap"
)

// DiagKind classifies a recorded diagnostic.
type DiagKind int

const (
	DiagSchemaDrift DiagKind = iota
	DiagClassification
	DiagTierGap
	DiagBadField
)

func (k DiagKind) String() string {
	switch k {
	case DiagSchemaDrift:
		return "schema_drift"
	case DiagClassification:
		return "classification"
	case DiagTierGap:
		return "tier_gap"
	case DiagBadField:
		return "bad_field"
	}
	return "unknown"
}

// Diagnostic is one non-fatal problem reported during a load.
type Diagnostic struct {
	Kind    DiagKind
	Section string
	Message string
}

// Diagnostics collects warnings for a single decode run. Schema drift is
// reported once per section and tier classification failures once per run;
// a fresh Diagnostics starts with nothing suppressed.
type Diagnostics struct {
	log         *zap.Logger
	driftWarned map[string]bool
	classWarned bool
	entries     []Diagnostic
}

// NewDiagnostics returns a collector that also logs through log.
// A nil logger discards output.
func NewDiagnostics(log *zap.Logger) *Diagnostics {
	if log == nil {
		log = zap.NewNop()
	}
	return &Diagnostics{
		log:         log,
		driftWarned: make(map[string]bool),
	}
}

// Logger returns the logger diagnostics are written to.
func (d *Diagnostics) Logger() *zap.Logger { return d.log }

// Entries returns every diagnostic recorded so far, in order.
func (d *Diagnostics) Entries() []Diagnostic { return d.entries }

// Count returns how many diagnostics of kind were recorded.
func (d *Diagnostics) Count(kind DiagKind) int {
	n := 0
	for _, e := range d.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// SchemaDrift reports a row whose field count differs from its layout.
// Only the first mismatch per section is reported.
func (d *Diagnostics) SchemaDrift(l *Layout, raw string, actual int, row Row) {
	if d.driftWarned[l.Section] {
		return
	}
	d.driftWarned[l.Section] = true

	hint := "the getMaster format may have changed"
	if actual <= 1 {
		hint = "probably a parsing bug"
	}
	d.record(DiagSchemaDrift, l.Section, hint)
	d.log.Warn("unexpected field count",
		zap.String("section", l.Section),
		zap.Int("actual", actual),
		zap.Int("expected", l.Len()),
		zap.String("row", raw),
		zap.String("hint", hint),
		zap.Strings("interpretation", row.Describe()),
	)
}

// Unclassified reports a character row that matched no tier rule. Only the
// first one per run is logged; later ones are still dropped.
func (d *Diagnostics) Unclassified(c *Character) {
	if d.classWarned {
		return
	}
	d.classWarned = true
	d.record(DiagClassification, SectionCharacter, c.FullName)
	d.log.Warn("character row with an invalid evolution tier, ignoring it and similar rows",
		zap.String("name", c.FullName),
		zap.String("id", c.ID),
		zap.String("tier", c.TierLiteral),
	)
}

// TierGap reports a knight whose tiers are not contiguous.
func (d *Diagnostics) TierGap(k *Knight, err error) {
	d.record(DiagTierGap, SectionCharacter, k.FullName())
	d.log.Error("knight has inconsistent evolution tiers",
		zap.String("name", k.FullName()),
		zap.Error(err),
	)
}

// BadField reports a value that could not be converted at the record boundary.
func (d *Diagnostics) BadField(section, field, value string) {
	d.record(DiagBadField, section, field+"="+value)
	d.log.Debug("unparsable field",
		zap.String("section", section),
		zap.String("field", field),
		zap.String("value", value),
	)
}

func (d *Diagnostics) record(kind DiagKind, section, msg string) {
	d.entries = append(d.entries, Diagnostic{Kind: kind, Section: section, Message: msg})
}
