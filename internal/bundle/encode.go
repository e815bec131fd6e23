package bundle

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/klauspost/compress/zlib"
)

// Encode writes b as a compressed bundle: a zlib stream of one JSON object
// whose text sections are base64 strings and whose list sections are arrays.
// Section order is preserved.
func Encode(w io.Writer, b *Bundle) error {
	payload, err := b.MarshalJSON()
	if err != nil {
		return err
	}
	zw := zlib.NewWriter(w)
	if _, err := zw.Write(payload); err != nil {
		zw.Close()
		return fmt.Errorf("compress bundle: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress bundle: %w", err)
	}
	return nil
}

// MarshalJSON renders the bundle as an ordered JSON object with base64 text
// sections.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("encode key %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		if l, ok := b.lists[k]; ok {
			buf.WriteByte('[')
			buf.WriteString(strings.Join(l, ","))
			buf.WriteByte(']')
			continue
		}
		val, err := json.Marshal(base64.StdEncoding.EncodeToString([]byte(b.text[k])))
		if err != nil {
			return nil, fmt.Errorf("encode section %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// StampLayout is the date format of the plaintext dump marker.
const StampLayout = "02-01-2006"

// Plaintext renders the dump read back by the plaintext decoder:
// a TimeStamp line, then each section as "name\n\nbody". List sections are
// written as a JSON array.
func (b *Bundle) Plaintext(stamp time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "TimeStamp:%s\n\n", stamp.Format(StampLayout))
	for i, k := range b.keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(k)
		sb.WriteString("\n\n")
		if l, ok := b.lists[k]; ok {
			sb.WriteString("[" + strings.Join(l, ",") + "]")
			continue
		}
		sb.WriteString(b.text[k])
	}
	return sb.String()
}
