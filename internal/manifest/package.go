package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileName is the manifest file name inside an app directory.
const FileName = "package.json"

// Package is an ordered package.json document.
type Package struct {
	fields []field
}

type field struct {
	key   string
	value json.RawMessage
}

// New returns the manifest written for a brand new app.
func New(name string) *Package {
	p := &Package{}
	p.mustSet("name", name)
	p.mustSet("version", "0.1.0")
	p.mustSet("private", true)
	return p
}

// Parse decodes a package.json document, keeping key order.
func Parse(data []byte) (*Package, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decoding package.json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decoding package.json: top-level value must be an object")
	}

	p := &Package{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding package.json: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decoding package.json: unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decoding package.json key %q: %w", key, err)
		}
		p.setRaw(key, raw)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decoding package.json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decoding package.json: unexpected data after the top-level object")
	}

	return p, nil
}

// Load reads and parses the manifest at path.
func Load(fsys afero.Fs, path string) (*Package, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// LoadOrNew loads <dir>/package.json, or returns New(name) when the file
// does not exist. The boolean reports whether a file was found.
func LoadOrNew(fsys afero.Fs, dir, name string) (*Package, bool, error) {
	path := filepath.Join(dir, FileName)
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return nil, false, fmt.Errorf("checking %s: %w", path, err)
	}
	if !exists {
		return New(name), false, nil
	}
	p, err := Load(fsys, path)
	if err != nil {
		return nil, true, err
	}
	return p, true, nil
}

// Keys returns the top-level keys in document order.
func (p *Package) Keys() []string {
	keys := make([]string, len(p.fields))
	for i, f := range p.fields {
		keys[i] = f.key
	}
	return keys
}

// Has reports whether key is present.
func (p *Package) Has(key string) bool {
	return p.index(key) >= 0
}

// Get decodes the value stored under key into v. It returns false when the
// key is absent.
func (p *Package) Get(key string, v any) (bool, error) {
	i := p.index(key)
	if i < 0 {
		return false, nil
	}
	if err := json.Unmarshal(p.fields[i].value, v); err != nil {
		return true, fmt.Errorf("decoding %q: %w", key, err)
	}
	return true, nil
}

// Set stores v under key. An existing key keeps its position; a new key is
// appended.
func (p *Package) Set(key string, v any) error {
	raw, err := marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %q: %w", key, err)
	}
	p.setRaw(key, raw)
	return nil
}

// Name returns the "name" field, or "" when missing or not a string.
func (p *Package) Name() string {
	var name string
	if _, err := p.Get("name", &name); err != nil {
		return ""
	}
	return name
}

// Dependencies returns the "dependencies" map. A missing field yields an
// empty map.
func (p *Package) Dependencies() (map[string]string, error) {
	deps := map[string]string{}
	if _, err := p.Get("dependencies", &deps); err != nil {
		return nil, err
	}
	if deps == nil {
		deps = map[string]string{}
	}
	return deps, nil
}

// MarshalJSON implements json.Marshaler, writing keys in document order.
func (p *Package) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(f.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode renders the manifest with two-space indentation and a trailing
// newline.
func (p *Package) Encode() ([]byte, error) {
	raw, err := p.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("indenting package.json: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Write encodes the manifest to path.
func (p *Package) Write(fsys afero.Fs, path string) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (p *Package) index(key string) int {
	for i, f := range p.fields {
		if f.key == key {
			return i
		}
	}
	return -1
}

func (p *Package) setRaw(key string, raw json.RawMessage) {
	if i := p.index(key); i >= 0 {
		p.fields[i].value = raw
		return
	}
	p.fields = append(p.fields, field{key: key, value: raw})
}

func (p *Package) mustSet(key string, v any) {
	if err := p.Set(key, v); err != nil {
		panic(err)
	}
}

// marshal encodes v without HTML escaping, so values such as ">0.2%" are
// written verbatim.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Entry is one key/value pair of an OrderedStrings map.
type Entry struct {
	Key   string
	Value string
}

// OrderedStrings is a string map that encodes in slice order.
type OrderedStrings []Entry

// MarshalJSON implements json.Marshaler.
func (o OrderedStrings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the value for key.
func (o OrderedStrings) Get(key string) (string, bool) {
	for _, e := range o {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}
