package draft

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var persistOptions = &pretty.Options{Width: 80, Indent: "    "}

// Document holds a whole project file as raw JSON. Reads and writes go
// through paths, so fields this package never touches keep their order and
// formatting.
type Document struct {
	raw []byte
}

// ParseDocument validates data as a JSON object.
func ParseDocument(data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !gjson.ValidBytes(data) {
		return nil, ErrMalformedDocument
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("%w: root is not an object", ErrMalformedDocument)
	}
	return &Document{raw: bytes.Clone(data)}, nil
}

func (d *Document) Get(path string) gjson.Result {
	return gjson.GetBytes(d.raw, path)
}

// sets a Go value at path, creating intermediate objects as needed
func (d *Document) Set(path string, value any) error {
	raw, err := marshalValue(value)
	if err != nil {
		return err
	}
	return d.SetRaw(path, raw)
}

// sets pre-encoded JSON at path
func (d *Document) SetRaw(path string, raw []byte) error {
	out, err := sjson.SetRawBytes(d.raw, path, raw)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	d.raw = out
	return nil
}

// raw JSON of the whole document as currently edited
func (d *Document) Bytes() []byte {
	return bytes.Clone(d.raw)
}

// indented JSON of the whole document, as written to disk
func (d *Document) Pretty() []byte {
	return pretty.PrettyOptions(d.raw, persistOptions)
}

// encodes without HTML escaping so non-ASCII and <>& stay literal
func marshalValue(value any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// joins raw JSON values into an array
func rawArray(items [][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(item)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}
