package emitter

import (
	"errors"
	"os"
)

// DriftKind classifies a verification finding.
type DriftKind string

const (
	DriftMissing  DriftKind = "missing"
	DriftModified DriftKind = "modified"
)

// Drift is one emitted document that no longer matches the entry document.
type Drift struct {
	Kind  DriftKind `json:"kind"`
	Route string    `json:"route"`
	Path  string    `json:"path"`
}

// Verify checks that every file is still byte-identical to source.
// A missing file is drift; any other read failure is returned as an error.
func Verify(source string, files []File) ([]Drift, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, &IOError{Op: "read", Path: source, Err: err}
	}
	want := Digest(data)

	var drifts []Drift
	for _, f := range files {
		got, err := os.ReadFile(f.Path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			drifts = append(drifts, Drift{Kind: DriftMissing, Route: f.Route, Path: f.Path})
		case err != nil:
			return drifts, &IOError{Op: "read", Path: f.Path, Err: err}
		case Digest(got) != want:
			drifts = append(drifts, Drift{Kind: DriftModified, Route: f.Route, Path: f.Path})
		}
	}
	return drifts, nil
}
