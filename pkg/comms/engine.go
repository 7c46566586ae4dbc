// Package comms renders and dispatches supplier communication: the invitation
// that points a supplier at the intake form, the confirmation sent after a
// submission, and the exported line-item sheet handed to the buying team.
package comms

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplate "github.com/goliatone/go-template"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Engine is a cached pongo2 template set scoped to supplier messaging. Email
// bodies are plain text; templates stay declarative and free of business
// logic.
type Engine struct {
	mu    sync.RWMutex
	set   *pongo2.TemplateSet
	cache map[string]*pongo2.Template
	ext   string
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	files     fs.FS
	extension string
}

// WithTemplates overrides the embedded template set with a caller-provided
// filesystem, for operators that customise the email copy.
func WithTemplates(files fs.FS) EngineOption {
	return func(cfg *engineConfig) {
		if files != nil {
			cfg.files = files
		}
	}
}

// WithExtension overrides the default ".tpl" template extension.
func WithExtension(ext string) EngineOption {
	return func(cfg *engineConfig) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithEngineOptions accepts go-template engine options so callers that
// configure a go-template stack can pass the same option slice here without
// forking their setup code. It is intentionally inert: the comms engine drives
// pongo2 directly and resolves its template source and extension through
// WithTemplates and WithExtension, so there is nothing for go-template options
// to configure.
func WithEngineOptions(_ ...gotemplate.Option) EngineOption {
	return func(*engineConfig) {}
}

// NewEngine builds an Engine over the embedded templates unless WithTemplates
// points it elsewhere.
func NewEngine(options ...EngineOption) (*Engine, error) {
	cfg := &engineConfig{extension: ".tpl"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.files == nil {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, fmt.Errorf("comms: embedded templates: %w", err)
		}
		cfg.files = sub
	}

	return &Engine{
		set:   pongo2.NewSet("comms", pongo2.NewFSLoader(cfg.files)),
		cache: make(map[string]*pongo2.Template),
		ext:   cfg.extension,
	}, nil
}

// Render executes the named template with the given context and returns the
// message body.
func (e *Engine) Render(name string, data map[string]any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("comms: engine is nil")
	}
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}

	tmpl, err := e.template(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context(data), &buf); err != nil {
		return "", fmt.Errorf("comms: execute template %q: %w", name, err)
	}
	return buf.String(), nil
}

func (e *Engine) template(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.cache[name]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("comms: load template %q: %w", name, err)
	}
	e.cache[name] = tmpl
	return tmpl, nil
}
