package emitter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/staticroute/internal/routes"
)

// DefaultEntryDocument is the entry document name static hosts serve for a
// directory.
const DefaultEntryDocument = "index.html"

// Options configures an emission run.
type Options struct {
	// OutputRoot is the bundler's output directory.
	OutputRoot string

	// EntryDocument is the compiled document name inside OutputRoot.
	// Default: DefaultEntryDocument.
	EntryDocument string

	// Routes are the enumerated logical paths.
	Routes []string

	// Logger receives per-file debug logs. Default: slog.Default().
	Logger *slog.Logger
}

// File describes one emitted route document.
type File struct {
	Route  string `json:"route"`
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
}

// Result summarizes an emission run.
type Result struct {
	Source       string `json:"source"`
	SourceSHA256 string `json:"source_sha256"`
	Emitted      int    `json:"emitted"`
	Files        []File `json:"files"`
}

// Emit writes a copy of the entry document at each non-root route.
// Duplicate routes are emitted once.
func Emit(ctx context.Context, opts Options) (*Result, error) {
	entry := opts.EntryDocument
	if entry == "" {
		entry = DefaultEntryDocument
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	source := filepath.Join(opts.OutputRoot, entry)
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, &IOError{Op: "read", Path: source, Err: err}
	}

	result := &Result{
		Source:       source,
		SourceSHA256: Digest(data),
		Files:        []File{},
	}

	seen := make(map[string]bool, len(opts.Routes))
	for _, route := range opts.Routes {
		if route == "/" || seen[route] {
			continue
		}
		seen[route] = true

		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("emit: %w", err)
		}

		target, err := DocumentPath(opts.OutputRoot, entry, route)
		if err != nil {
			return result, err
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return result, &IOError{Op: "mkdir", Path: filepath.Dir(target), Emitted: result.Emitted, Err: err}
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return result, &IOError{Op: "write", Path: target, Emitted: result.Emitted, Err: err}
		}

		result.Emitted++
		result.Files = append(result.Files, File{Route: route, Path: target, SHA256: result.SourceSHA256})
		logger.Debug("emitted route document", "route", route, "path", target)
	}

	logger.Info("route documents emitted", "count", result.Emitted, "source", source)
	return result, nil
}

// DocumentPath returns where route's document lives under root.
// Routes must be valid logical paths without "." or ".." segments.
func DocumentPath(root, entry, route string) (string, error) {
	if err := routes.ValidatePath(route); err != nil {
		return "", fmt.Errorf("emit %q: %w", route, err)
	}
	rel := strings.TrimPrefix(route, "/")
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." || (seg == "" && rel != "") {
			return "", fmt.Errorf("emit %q: invalid path segment %q", route, seg)
		}
	}
	return filepath.Join(root, filepath.FromSlash(rel), entry), nil
}

// Digest returns the hex SHA-256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
