package wiki

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Module header lines.
const (
	categoryAuto      = "--[[Category:Automatically updated modules]]"
	categoryManual    = "--[[Category:Manually updated modules]]"
	categoryKnights   = "--[[Category:Flower Knight description modules]]"
	categoryEquipment = "--[[Category:Equipment modules]]"
	categoryMemories  = "--[[Category:Flower Memory modules]]"
)

var numberLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?$`)

// luaString quotes s as a Lua 5.1 string literal.
func luaString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\%03d`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// luaValue writes numbers bare and everything else quoted.
func luaValue(s string) string {
	if numberLiteral.MatchString(s) {
		return s
	}
	return luaString(s)
}

func luaInt(n int) string { return strconv.Itoa(n) }

func luaBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// luaFloat writes affection multipliers without a trailing ".0".
func luaFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// luaKey writes a table key. Identifiers are bare, numbers use [n], and
// anything else uses ["s"].
func luaKey(k string) string {
	if numberLiteral.MatchString(k) && !strings.Contains(k, ".") {
		return "[" + k + "]"
	}
	if isIdent(k) {
		return k
	}
	return "[" + luaString(k) + "]"
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var luaKeywords = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "if": true,
	"in": true, "local": true, "nil": true, "not": true, "or": true,
	"repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}

func isIdent(s string) bool { return identifier.MatchString(s) && !luaKeywords[s] }

// field is one key=value pair of an inline table.
type field struct {
	key   string
	value string
}

func inline(fields []field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = luaKey(f.key) + "=" + f.value
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// recordFields lists every named field of a record, sorted by name, with
// values quoted unless numeric.
func recordFields(names, values []string) []field {
	out := make([]field, len(names))
	for i, n := range names {
		out[i] = field{key: n, value: luaValue(values[i])}
	}
	sortFields(out)
	return out
}

func sortFields(fs []field) {
	sort.SliceStable(fs, func(i, j int) bool { return fs[i].key < fs[j].key })
}

// module assembles a page: header comment lines, a blank line, then
// "return {" with one entry per line.
func module(header []string, entries []string) string {
	var sb strings.Builder
	for _, h := range header {
		sb.WriteString(h)
		sb.WriteByte('\n')
	}
	sb.WriteString("\nreturn {\n")
	for _, e := range entries {
		sb.WriteString("\t")
		sb.WriteString(e)
		sb.WriteString(",\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}
