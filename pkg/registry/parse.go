package registry

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cpkg/pkg/errors"
)

// Format identifies the encoding of a registry document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DetectFormat picks a document format from the location's extension, then
// from an HTTP Content-Type, defaulting to JSON.
func DetectFormat(location, contentType string) Format {
	loc := location
	if i := strings.IndexAny(loc, "?#"); i >= 0 {
		loc = loc[:i]
	}
	switch strings.ToLower(path.Ext(loc)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	}

	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "yaml"):
		return FormatYAML
	case strings.Contains(ct, "toml"):
		return FormatTOML
	}
	return FormatJSON
}

// FieldError is a validation failure for one field of one registry entry.
type FieldError struct {
	Package string
	Field   string // Empty when the entry itself is invalid
	Reason  string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Package, e.Reason)
	}
	return fmt.Sprintf("%s.%s: %s", e.Package, e.Field, e.Reason)
}

// Parse decodes a registry document and converts it into a Catalog.
// Decoding failures and field validation failures are both reported as
// REGISTRY_MALFORMED; field failures are joined so callers can inspect each
// one with errors.As on *FieldError.
func Parse(data []byte, format Format) (*Catalog, error) {
	doc, err := decode(data, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRegistryMalformed, err, "decode %s registry document", format)
	}

	root, ok := asMap(doc)
	if !ok {
		return nil, errors.New(errors.ErrCodeRegistryMalformed, "registry document must be a mapping of package names, got %s", kind(doc))
	}

	var problems []error
	descs := make([]Descriptor, 0, len(root))
	for _, name := range slices.Sorted(maps.Keys(root)) {
		d, errs := convertEntry(name, root[name])
		if len(errs) > 0 {
			problems = append(problems, errs...)
			continue
		}
		descs = append(descs, d)
	}
	if len(problems) > 0 {
		return nil, errors.Wrap(errors.ErrCodeRegistryMalformed, stderrors.Join(problems...), "invalid registry document")
	}

	return NewCatalog(descs...), nil
}

func decode(data []byte, format Format) (any, error) {
	var doc any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatTOML:
		var m map[string]any
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		doc = m
	case FormatJSON, "":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return doc, nil
}

func convertEntry(name string, raw any) (Descriptor, []error) {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, &FieldError{Package: name, Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if err := errors.ValidatePackageName(name); err != nil {
		fail("", "invalid package name: %s", errors.UserMessage(err))
	}

	entry, ok := asMap(raw)
	if !ok {
		fail("", "entry must be a mapping, got %s", kind(raw))
		return Descriptor{}, errs
	}

	d := Descriptor{Name: name, Versions: map[string]string{}}

	switch v := entry["url"].(type) {
	case nil:
		fail("url", "required string field is missing")
	case string:
		if err := errors.ValidateRepoURL(v); err != nil {
			fail("url", "%s", errors.UserMessage(err))
		}
		d.URL = v
	default:
		fail("url", "must be a string, got %s", kind(v))
	}

	switch v := entry["description"].(type) {
	case nil:
	case string:
		d.Description = v
	default:
		fail("description", "must be a string, got %s", kind(v))
	}

	if raw, present := entry["versions"]; present && raw != nil {
		versions, ok := asMap(raw)
		switch {
		case ok:
		case kind(raw) == "mapping":
			fail("versions", "labels must be strings, numbers or booleans")
		default:
			fail("versions", "must be a mapping of label to revision, got %s", kind(raw))
		}
		for _, label := range slices.Sorted(maps.Keys(versions)) {
			rev, ok := scalar(versions[label])
			if !ok {
				fail("versions."+label, "revision must be a scalar, got %s", kind(versions[label]))
				continue
			}
			if err := errors.ValidateRevision(rev); err != nil {
				fail("versions."+label, "%s", errors.UserMessage(err))
				continue
			}
			d.Versions[label] = rev
		}
	}

	if raw, present := entry["dependencies"]; present && raw != nil {
		list, ok := raw.([]any)
		if !ok {
			fail("dependencies", "must be a sequence of package names, got %s", kind(raw))
		}
		for i, item := range list {
			dep, ok := item.(string)
			if !ok || dep == "" {
				fail(fmt.Sprintf("dependencies[%d]", i), "must be a non-empty string, got %s", kind(item))
				continue
			}
			d.Dependencies = append(d.Dependencies, dep)
		}
	}

	return d, errs
}

// asMap normalizes the mapping types produced by the three decoders.
// YAML reads unquoted keys such as 10.2 or 1234567 as numbers; scalar keys
// are turned back into their text.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := scalar(k)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}

// scalar returns the text of a string, number or boolean.
func scalar(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(s), true
	}
	return "", false
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, uint64:
		return "number"
	case []any:
		return "sequence"
	case map[string]any, map[any]any:
		return "mapping"
	}
	return fmt.Sprintf("%T", v)
}
