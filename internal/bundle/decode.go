package bundle

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/zlib"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ErrUndecodable is returned when a file is neither a compressed bundle nor
// a plaintext dump.
var ErrUndecodable = errors.New("bundle is neither compressed JSON nor a plaintext dump")

// Decoder turns bundle files into a Bundle.
type Decoder struct {
	log *zap.Logger
}

// NewDecoder returns a decoder logging progress through log.
func NewDecoder(log *zap.Logger) *Decoder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Decoder{log: log}
}

// Decode reads each path and merges the results in order. Nothing is
// returned unless every file decodes.
func (d *Decoder) Decode(paths ...string) (*Bundle, error) {
	if len(paths) == 0 {
		return nil, errors.New("no bundle files given")
	}
	out := New()
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read bundle %s: %w", p, err)
		}
		b, err := d.DecodeBytes(raw)
		if err != nil {
			return nil, fmt.Errorf("decode bundle %s: %w", p, err)
		}
		d.log.Info("bundle decoded", zap.String("path", p), zap.Int("sections", b.Len()))
		out.Merge(b)
	}
	return out, nil
}

// Decode reads bundle files with a silent decoder.
func Decode(paths ...string) (*Bundle, error) {
	return NewDecoder(nil).Decode(paths...)
}

// DecodeBytes tries the compressed form, then the plaintext form.
func (d *Decoder) DecodeBytes(raw []byte) (*Bundle, error) {
	b, cerr := d.decodeCompressed(raw)
	if cerr == nil {
		return b, nil
	}
	d.log.Debug("not a compressed bundle", zap.Error(cerr))

	b, perr := decodePlaintext(raw)
	if perr == nil {
		return b, nil
	}
	d.log.Debug("not a plaintext dump", zap.Error(perr))
	return nil, errors.Join(ErrUndecodable, cerr, perr)
}

func (d *Decoder) decodeCompressed(raw []byte) (*Bundle, error) {
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer zr.Close()
	payload, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	if !utf8.Valid(payload) {
		return nil, errors.New("payload is not UTF-8")
	}
	if !gjson.ValidBytes(payload) {
		return nil, errors.New("payload is not JSON")
	}
	root := gjson.ParseBytes(payload)
	if !root.IsObject() {
		return nil, errors.New("payload is not a JSON object")
	}

	b := New()
	var plain []string
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		switch {
		case value.IsArray():
			var elems []string
			value.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, v.Raw)
				return true
			})
			b.SetList(name, elems)
		case value.Type == gjson.String:
			text, ok := decodeBase64(value.Str)
			if !ok {
				plain = append(plain, name)
				text = value.Str
			}
			b.SetText(name, text)
		default:
			b.SetText(name, value.String())
		}
		return true
	})
	if len(plain) > 0 {
		d.log.Debug("sections stored without base64", zap.Strings("sections", plain))
	}
	return b, nil
}

func decodeBase64(s string) (string, bool) {
	dec, err := base64.StdEncoding.DecodeString(s)
	if err != nil || !utf8.Valid(dec) {
		return "", false
	}
	return string(dec), true
}

// timestampMarker opens every plaintext dump.
var timestampMarker = regexp.MustCompile(`^(?i:timestamp):`)

func decodePlaintext(raw []byte) (*Bundle, error) {
	if !utf8.Valid(raw) {
		return nil, errors.New("not UTF-8 text")
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")
	text = strings.TrimLeft(text, " \t\r\n")
	if !timestampMarker.MatchString(text) {
		return nil, errors.New("missing Timestamp: marker")
	}

	b := New()
	for _, name := range Headers(text) {
		b.SetText(name, strings.Join(ExtractSection(text, name), "\n"))
	}
	return b, nil
}
