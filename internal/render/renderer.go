// Package render turns a component template and its data into an HTML fragment.
package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bassista/go_preview/internal/apperror"
	"github.com/osteele/liquid"
	lrender "github.com/osteele/liquid/render"
)

// Renderer renders the template of a component with a data context.
type Renderer interface {
	Render(ctx context.Context, component string, data map[string]any) (string, error)
}

// LiquidRenderer renders <componentsDir>/<component>/<component><ext>.
// Snippets used with {% render 'name' %} are looked up in the components
// directory first and then in the snippets directory.
type LiquidRenderer struct {
	engine        *liquid.Engine
	componentsDir string
	snippetsDir   string
	ext           string
}

func NewLiquidRenderer(componentsDir, snippetsDir, ext string) *LiquidRenderer {
	r := &LiquidRenderer{
		engine:        liquid.NewEngine(),
		componentsDir: componentsDir,
		snippetsDir:   snippetsDir,
		ext:           ext,
	}
	r.engine.RegisterTag("render", r.renderTag)
	return r
}

// TemplatePath returns the file a component is rendered from.
func (r *LiquidRenderer) TemplatePath(component string) string {
	return filepath.Join(r.componentsDir, component, component+r.ext)
}

func (r *LiquidRenderer) Render(ctx context.Context, component string, data map[string]any) (string, error) {
	op := "render " + component
	if err := ctx.Err(); err != nil {
		return "", apperror.Render(op, err)
	}
	if err := ValidateName(component); err != nil {
		return "", apperror.Render(op, err)
	}

	path := r.TemplatePath(component)
	source, err := os.ReadFile(path)
	if err != nil {
		return "", apperror.Render(op, fmt.Errorf("read template: %w", err))
	}

	tpl, perr := r.engine.ParseTemplateLocation(source, path, 1)
	if perr != nil {
		return "", apperror.Render(op, perr)
	}
	out, rerr := tpl.RenderString(liquid.Bindings(data))
	if rerr != nil {
		return "", apperror.Render(op, rerr)
	}
	return out, nil
}

// renderTag implements {% render 'snippet', key: value, ... %}.
func (r *LiquidRenderer) renderTag(ctx lrender.Context) (string, error) {
	name, params, err := parseRenderArgs(ctx.TagArgs())
	if err != nil {
		return "", err
	}
	path, err := r.resolveSnippet(name)
	if err != nil {
		return "", err
	}

	bindings := make(map[string]any, len(params))
	for key, expr := range params {
		value, err := ctx.EvaluateString(expr)
		if err != nil {
			return "", fmt.Errorf("render %s: evaluate %s: %w", name, key, err)
		}
		bindings[key] = value
	}
	return ctx.RenderFile(path, bindings)
}

func (r *LiquidRenderer) resolveSnippet(name string) (string, error) {
	if err := validateSnippetName(name); err != nil {
		return "", err
	}
	for _, root := range []string{r.componentsDir, r.snippetsDir} {
		if root == "" {
			continue
		}
		candidate := filepath.Join(root, filepath.FromSlash(name)+r.ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("snippet %q not found", name)
}

// parseRenderArgs splits `'name', a: expr, b: expr` into the snippet name and
// its parameter expressions.
func parseRenderArgs(args string) (string, map[string]string, error) {
	args = strings.TrimSpace(args)
	if len(args) < 2 || (args[0] != '\'' && args[0] != '"') {
		return "", nil, fmt.Errorf("render: expected quoted snippet name, got %q", args)
	}
	end := strings.IndexByte(args[1:], args[0])
	if end < 0 {
		return "", nil, fmt.Errorf("render: unterminated snippet name in %q", args)
	}
	name := args[1 : end+1]
	rest := strings.TrimSpace(args[end+2:])

	params := map[string]string{}
	rest = strings.TrimPrefix(rest, ",")
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, expr, ok := strings.Cut(part, ":")
		if !ok {
			return "", nil, fmt.Errorf("render: malformed parameter %q", part)
		}
		params[strings.TrimSpace(key)] = strings.TrimSpace(expr)
	}
	return name, params, nil
}

// ValidateName rejects component identifiers that could escape the
// components directory.
func ValidateName(component string) error {
	if component == "" || component == "." || component == ".." ||
		strings.ContainsAny(component, `/\`) {
		return fmt.Errorf("invalid component name %q", component)
	}
	return nil
}

func validateSnippetName(name string) error {
	if name == "" || strings.Contains(name, "..") || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return errors.New("invalid snippet name " + name)
	}
	return nil
}
