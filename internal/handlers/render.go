package handlers

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/flosch/pongo2/v6"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

var htmlContentType = []string{"text/html; charset=utf-8"}

// PongoRender renders pongo2 templates for gin's c.HTML
type PongoRender struct {
	set   *pongo2.TemplateSet
	cache bool
}

// NewPongoRender loads templates from fsys; cached templates are compiled once
func NewPongoRender(fsys fs.FS, cache bool) *PongoRender {
	set := pongo2.NewSet("pages", pongo2.NewFSLoader(fsys))
	set.Debug = !cache
	return &PongoRender{set: set, cache: cache}
}

// Instance implements render.HTMLRender
func (p *PongoRender) Instance(name string, data any) render.Render {
	var (
		tpl *pongo2.Template
		err error
	)
	if p.cache {
		tpl, err = p.set.FromCache(name)
	} else {
		tpl, err = p.set.FromFile(name)
	}
	return &pongoPage{template: tpl, loadErr: err, name: name, context: toContext(data)}
}

func toContext(data any) pongo2.Context {
	switch v := data.(type) {
	case pongo2.Context:
		return v
	case gin.H:
		return pongo2.Context(v)
	case map[string]any:
		return pongo2.Context(v)
	case nil:
		return pongo2.Context{}
	default:
		return pongo2.Context{"data": v}
	}
}

type pongoPage struct {
	template *pongo2.Template
	loadErr  error
	name     string
	context  pongo2.Context
}

// Render implements render.Render
func (p *pongoPage) Render(w http.ResponseWriter) error {
	p.WriteContentType(w)
	if p.loadErr != nil {
		return fmt.Errorf("failed to load template %s: %w", p.name, p.loadErr)
	}
	return p.template.ExecuteWriter(p.context, w)
}

// WriteContentType implements render.Render
func (p *pongoPage) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = htmlContentType
	}
}
