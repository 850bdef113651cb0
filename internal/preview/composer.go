// Package preview assembles the standalone HTML documents served to the
// browser: the component index and the per-store component preview page.
package preview

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/bassista/go_preview/internal/apperror"
	"github.com/bassista/go_preview/internal/cache"
	"github.com/bassista/go_preview/internal/config"
	"github.com/bassista/go_preview/internal/livereload"
	"github.com/bassista/go_preview/internal/logger"
	"github.com/bassista/go_preview/internal/render"
	"github.com/bassista/go_preview/internal/style"
	"github.com/tidwall/gjson"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// SettingsKey is the template variable holding the store's theme settings.
const SettingsKey = "settings"

// Catalog lists the available components and loads their mock data.
type Catalog interface {
	List() ([]string, error)
	Fixture(ctx context.Context, component string) (map[string]any, error)
}

// StyleSource produces the styling context of a store.
type StyleSource interface {
	Compose(ctx context.Context, storeID string) (style.Context, error)
}

// Options toggles optional composition steps.
type Options struct {
	InjectSettings bool
}

// Composer builds preview and index documents.
type Composer struct {
	stores   config.Stores
	catalog  Catalog
	style    StyleSource
	renderer render.Renderer
	assets   cache.AssetStore
	opts     Options
}

func NewComposer(stores config.Stores, catalog Catalog, styles StyleSource, renderer render.Renderer, assets cache.AssetStore, opts Options) *Composer {
	return &Composer{
		stores:   stores,
		catalog:  catalog,
		style:    styles,
		renderer: renderer,
		assets:   assets,
		opts:     opts,
	}
}

type pageData struct {
	Store        string
	Component    string
	FontFaces    template.HTML
	CSSVariables template.HTML
	Fragment     template.HTML
	ReloadScript template.HTML
}

// Compose renders component with its fixture data and wraps the fragment in
// a page that looks like storeID's storefront.
func (c *Composer) Compose(ctx context.Context, storeID, component string) (string, error) {
	store, ok := c.stores.Lookup(storeID)
	if !ok {
		return "", apperror.Configuration("compose preview", fmt.Errorf("unknown store %q", storeID))
	}
	if err := render.ValidateName(component); err != nil {
		return "", apperror.Render("compose preview", err)
	}

	data, err := c.catalog.Fixture(ctx, component)
	if err != nil {
		return "", err
	}

	styling, err := c.style.Compose(ctx, storeID)
	if err != nil {
		return "", err
	}

	if c.opts.InjectSettings && store.SettingsData != "" {
		if _, defined := data[SettingsKey]; !defined {
			settings, err := c.themeSettings(ctx, storeID, store.SettingsData)
			if err != nil {
				return "", err
			}
			data[SettingsKey] = settings
		}
	}

	fragment, err := c.renderer.Render(ctx, component, data)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = templates.ExecuteTemplate(&buf, "page.html", pageData{
		Store:        storeID,
		Component:    component,
		FontFaces:    template.HTML(styling.FontFaces),
		CSSVariables: template.HTML(styling.CSSVariables),
		Fragment:     template.HTML(fragment),
		ReloadScript: template.HTML(livereload.ClientScript),
	})
	if err != nil {
		return "", apperror.Render("compose preview", err)
	}
	logger.WithStore("preview", storeID).Debugf("composed preview of %s (%d bytes)", component, buf.Len())
	return buf.String(), nil
}

// themeSettings fetches the store's settings document through the asset cache
// and returns its "current" object.
func (c *Composer) themeSettings(ctx context.Context, storeID, url string) (map[string]any, error) {
	entry, err := c.assets.GetOrFetch(ctx, storeID, config.AssetSettingsData, url)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(entry.Body) {
		return nil, apperror.Render("read theme settings", errors.New("settings data is not valid JSON"))
	}
	current := gjson.GetBytes(entry.Body, "current")
	if !current.IsObject() {
		return nil, apperror.Render("read theme settings", errors.New(`settings data has no "current" object`))
	}
	settings, _ := current.Value().(map[string]any)
	return settings, nil
}

type indexData struct {
	Stores       []string
	Components   []string
	ReloadScript template.HTML
}

// Index lists every component with one preview link per configured store.
func (c *Composer) Index() (string, error) {
	names, err := c.catalog.List()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = templates.ExecuteTemplate(&buf, "index.html", indexData{
		Stores:       c.stores.IDs(),
		Components:   names,
		ReloadScript: template.HTML(livereload.ClientScript),
	})
	if err != nil {
		return "", apperror.Render("compose index", err)
	}
	return buf.String(), nil
}
