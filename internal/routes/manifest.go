package routes

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Manifest is the declarative form of a route table.
type Manifest struct {
	// NotFound is the route unknown paths fall through to. Optional; when
	// set it must be one of Routes.
	NotFound string `yaml:"not_found,omitempty" json:"not_found,omitempty"`

	// Routes lists every enumerated logical path.
	Routes []RouteSpec `yaml:"routes" json:"routes"`
}

// RouteSpec declares one route in a manifest.
type RouteSpec struct {
	Path           string            `yaml:"path" json:"path"`
	Title          string            `yaml:"title,omitempty" json:"title,omitempty"`
	First5sMessage string            `yaml:"first_5s_message,omitempty" json:"first_5s_message,omitempty"`
	Meta           map[string]string `yaml:"meta,omitempty" json:"meta,omitempty"`
}

// LoadManifest reads a manifest from a .cue, .yaml or .yml file and
// validates it.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Code: ErrCodeManifestInvalid, Message: "reading manifest " + path, Err: err}
	}

	var m *Manifest
	switch ext := filepath.Ext(path); ext {
	case ".cue":
		m, err = ParseCUE(data, path)
	case ".yaml", ".yml":
		m, err = ParseYAML(data)
	default:
		return nil, &ConfigError{Code: ErrCodeManifestInvalid, Message: fmt.Sprintf("unsupported manifest extension %q", ext)}
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ParseYAML parses and validates a YAML manifest. Unknown fields are rejected.
func ParseYAML(data []byte) (*Manifest, error) {
	var m Manifest
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil {
		return nil, &ConfigError{Code: ErrCodeManifestInvalid, Message: "parsing YAML", Err: err}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ParseCUE compiles and validates a CUE manifest.
func ParseCUE(data []byte, filename string) (*Manifest, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, &ConfigError{Code: ErrCodeManifestInvalid, Message: "compiling CUE", Err: err}
	}

	m := &Manifest{}

	nf := v.LookupPath(cue.ParsePath("not_found"))
	if nf.Exists() {
		s, err := nf.String()
		if err != nil {
			return nil, cueFieldError("not_found", nf, err)
		}
		m.NotFound = s
	}

	routesVal := v.LookupPath(cue.ParsePath("routes"))
	if !routesVal.Exists() {
		return nil, &ConfigError{Code: ErrCodeManifestInvalid, Message: "routes is required"}
	}
	iter, err := routesVal.List()
	if err != nil {
		return nil, cueFieldError("routes", routesVal, err)
	}
	for iter.Next() {
		spec, err := parseCUERoute(iter.Value())
		if err != nil {
			return nil, err
		}
		m.Routes = append(m.Routes, spec)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func parseCUERoute(v cue.Value) (RouteSpec, error) {
	var spec RouteSpec

	pathVal := v.LookupPath(cue.ParsePath("path"))
	if !pathVal.Exists() {
		return spec, cueFieldError("path", v, fmt.Errorf("path is required"))
	}
	path, err := pathVal.String()
	if err != nil {
		return spec, cueFieldError("path", pathVal, err)
	}
	spec.Path = path

	if spec.Title, err = optionalString(v, "title"); err != nil {
		return spec, err
	}
	if spec.First5sMessage, err = optionalString(v, "first_5s_message"); err != nil {
		return spec, err
	}

	metaVal := v.LookupPath(cue.ParsePath("meta"))
	if metaVal.Exists() {
		fields, err := metaVal.Fields()
		if err != nil {
			return spec, cueFieldError("meta", metaVal, err)
		}
		spec.Meta = make(map[string]string)
		for fields.Next() {
			s, err := fields.Value().String()
			if err != nil {
				return spec, cueFieldError("meta."+fields.Label(), fields.Value(), err)
			}
			spec.Meta[fields.Label()] = s
		}
	}

	return spec, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", cueFieldError(field, fv, err)
	}
	return s, nil
}

func cueFieldError(field string, v cue.Value, err error) *ConfigError {
	msg := "invalid field " + field
	if pos := v.Pos(); pos.IsValid() {
		msg = fmt.Sprintf("%s:%d:%d: %s", pos.Filename(), pos.Line(), pos.Column(), msg)
	}
	return &ConfigError{Code: ErrCodeManifestInvalid, Message: msg, Err: err}
}

// Validate checks every path, rejects duplicates and paths that are not
// NFC-normalized, and requires NotFound to name a declared route.
func (m *Manifest) Validate() error {
	if len(m.Routes) == 0 {
		return &ConfigError{Code: ErrCodeManifestInvalid, Message: "at least one route is required"}
	}

	seen := make(map[string]bool, len(m.Routes))
	for _, r := range m.Routes {
		if err := ValidatePath(r.Path); err != nil {
			return err
		}
		if !norm.NFC.IsNormalString(r.Path) {
			return &ConfigError{Code: ErrCodeInvalidRoute, Path: r.Path, Message: "path must be NFC-normalized"}
		}
		if seen[r.Path] {
			return &ConfigError{Code: ErrCodeDuplicateRoute, Path: r.Path, Message: "route declared twice"}
		}
		seen[r.Path] = true
	}

	if m.NotFound != "" && !seen[m.NotFound] {
		return &ConfigError{Code: ErrCodeManifestInvalid, Path: m.NotFound, Message: "not_found must name a declared route"}
	}
	return nil
}

// Paths returns the declared paths in lexical order.
func (m *Manifest) Paths() []string {
	paths := make([]string, 0, len(m.Routes))
	for _, r := range m.Routes {
		paths = append(paths, r.Path)
	}
	sort.Strings(paths)
	return paths
}

// Table builds a route table from the manifest. loaders supplies content
// loaders by path; routes without one get a nil Loader.
func (m *Manifest) Table(loaders map[string]Loader) (*Table, error) {
	t := NewTable()
	for _, r := range m.Routes {
		e := Entry{Path: r.Path, Loader: loaders[r.Path]}
		if r.Title != "" || r.First5sMessage != "" || len(r.Meta) > 0 {
			e.UX = &UXMeta{Title: r.Title, First5sMessage: r.First5sMessage, Extra: r.Meta}
		}
		if err := t.Register(e); err != nil {
			return nil, err
		}
	}
	for path := range loaders {
		if _, err := t.Lookup(path); err != nil {
			return nil, &ConfigError{Code: ErrCodeInvalidRoute, Path: path, Message: "loader supplied for undeclared route"}
		}
	}
	return t, nil
}
