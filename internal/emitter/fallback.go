package emitter

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// DefaultFallbackDocument is the not-found document name most static hosts
// look for.
const DefaultFallbackDocument = "404.html"

//go:embed fallback.html.tmpl
var fallbackTemplate string

var fallbackTmpl = template.Must(template.New("fallback").Parse(fallbackTemplate))

// FallbackData fills the not-found document template.
type FallbackData struct {
	Title string
}

// RenderFallbackDocument renders the not-found document.
func RenderFallbackDocument(data FallbackData) ([]byte, error) {
	var buf bytes.Buffer
	if err := fallbackTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render fallback document: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFallbackDocument writes the not-found document to root/name.
func WriteFallbackDocument(root, name string, data FallbackData) (string, error) {
	if name == "" {
		name = DefaultFallbackDocument
	}
	content, err := RenderFallbackDocument(data)
	if err != nil {
		return "", err
	}
	target := filepath.Join(root, name)
	if err := os.WriteFile(target, content, 0644); err != nil {
		return "", &IOError{Op: "write", Path: target, Err: err}
	}
	return target, nil
}
