package data

import "strings"

// FieldDelimiter separates fields in every master-data row.
const FieldDelimiter = ","

// SplitRow splits one raw row into exactly expected fields.
// Short rows are padded with empty strings and long rows are cropped.
// exact reports whether the row had the expected count; actual is the count
// seen before padding or cropping.
//
// Some bundle eras end every row with a delimiter. The empty field this
// produces is not counted unless the row is too long even without it, in
// which case the raw count is reported as is.
func SplitRow(raw string, expected int) (fields []string, exact bool, actual int) {
	line := strings.TrimRight(raw, " \t\r\n")
	values := splitFields(line)
	if hasTrailingEmpty(line, values) && len(values)-1 <= expected {
		values = values[:len(values)-1]
	}
	actual = len(values)

	fields = make([]string, expected)
	copy(fields, values)
	return fields, actual == expected, actual
}

// RawFields splits a row without padding or cropping, always dropping the
// empty field left by a trailing delimiter.
func RawFields(raw string) []string {
	line := strings.TrimRight(raw, " \t\r\n")
	values := splitFields(line)
	if hasTrailingEmpty(line, values) {
		values = values[:len(values)-1]
	}
	return values
}

func splitFields(line string) []string {
	values := strings.Split(line, FieldDelimiter)
	for i, v := range values {
		values[i] = unquote(v)
	}
	return values
}

func hasTrailingEmpty(line string, values []string) bool {
	return strings.HasSuffix(line, FieldDelimiter) && values[len(values)-1] == ""
}

// unquote strips one pair of enclosing double quotes from a textual field.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
