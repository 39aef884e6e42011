// Package pack decodes the versioned YAML documents that carry authored
// content: the question table, persona profiles, and case packs.
package pack

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// ErrIncompatibleVersion is returned when a document's schema_version is
// missing, malformed, or newer than the reader supports.
var ErrIncompatibleVersion = errors.New("incompatible schema version")

// Kind describes one document type.
type Kind struct {
	Name      string         // e.g. "questions"
	Supported string         // highest schema_version understood, e.g. "1.2.0"
	Schema    map[string]any // JSON Schema for the whole document
}

// LoadError reports which document failed to decode.
type LoadError struct {
	Kind   string
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s from %s: %v", e.Kind, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// compiled caches compiled schemas by kind name.
var compiled sync.Map // map[string]*jsonschema.Schema

// Decode validates data against kind and unmarshals it into out.
// source names the document in errors.
func Decode(kind Kind, source string, data []byte, out any) error {
	fail := func(err error) error {
		return &LoadError{Kind: kind.Name, Source: source, Err: err}
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fail(fmt.Errorf("parse yaml: %w", err))
	}

	// jsonschema wants JSON-shaped values, not yaml.v3's int/map types.
	b, err := json.Marshal(raw)
	if err != nil {
		return fail(fmt.Errorf("convert to json: %w", err))
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fail(fmt.Errorf("convert to json: %w", err))
	}

	if err := checkVersion(kind, doc); err != nil {
		return fail(err)
	}

	schema, err := compile(kind)
	if err != nil {
		return fail(err)
	}
	if err := schema.Validate(doc); err != nil {
		return fail(fmt.Errorf("schema validation failed: %w", err))
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fail(fmt.Errorf("decode: %w", err))
	}
	return nil
}

func checkVersion(kind Kind, doc any) error {
	m, ok := doc.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: document is not a mapping", ErrIncompatibleVersion)
	}
	v, _ := m["schema_version"].(string)
	got := canonical(v)
	if !semver.IsValid(got) {
		return fmt.Errorf("%w: %q", ErrIncompatibleVersion, v)
	}
	want := canonical(kind.Supported)
	if semver.Major(got) != semver.Major(want) || semver.Compare(got, want) > 0 {
		return fmt.Errorf("%w: document is %s, reader supports up to %s", ErrIncompatibleVersion, got, want)
	}
	return nil
}

// canonical adds the "v" prefix semver expects.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

func compile(kind Kind) (*jsonschema.Schema, error) {
	if cached, ok := compiled.Load(kind.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	defBytes, err := json.Marshal(kind.Schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var def any
	if err := json.Unmarshal(defBytes, &def); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", kind.Name)
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	compiled.Store(kind.Name, s)
	return s, nil
}
