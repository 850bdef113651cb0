// Package style extracts the visual context of a remote storefront (font faces
// and the CSS custom-property block) so previews look like production.
package style

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/bassista/go_preview/internal/apperror"
	"github.com/bassista/go_preview/internal/config"
	"github.com/bassista/go_preview/internal/remote"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Context is the styling injected into every preview page.
type Context struct {
	FontFaces    string
	CSSVariables string
}

// Composer builds a Context for a configured store.
type Composer struct {
	stores  config.Stores
	fetcher remote.Fetcher
}

func NewComposer(stores config.Stores, fetcher remote.Fetcher) *Composer {
	return &Composer{stores: stores, fetcher: fetcher}
}

// Compose returns the font-face blocks and the homepage's CSS variable block.
func (c *Composer) Compose(ctx context.Context, storeID string) (Context, error) {
	store, ok := c.stores.Lookup(storeID)
	if !ok {
		return Context{}, apperror.Configuration("compose style context", fmt.Errorf("unknown store %q", storeID))
	}

	vars, err := c.CSSVariableBlock(ctx, store)
	if err != nil {
		return Context{}, err
	}
	return Context{FontFaces: FontFaceBlock(store), CSSVariables: vars}, nil
}

// FontFaceBlock emits one <style> per font family holding an @font-face rule
// per face. It returns "" when the store declares no fonts.
func FontFaceBlock(store config.StoreConfig) string {
	var b strings.Builder
	for _, family := range store.Fonts {
		b.WriteString("<style>")
		for _, face := range family.Faces {
			fmt.Fprintf(&b, `
      @font-face {
        font-family: '%s';
        src: url('%s') format('%s');
        font-weight: %d;
        font-style: %s;
      }
    `, family.Family, face.URL, face.Format, face.Weight, face.Style)
		}
		b.WriteString("</style>")
	}
	return b.String()
}

// CSSVariableBlock fetches the store homepage and returns the first <style>
// element under <head>, or "" when there is none.
func (c *Composer) CSSVariableBlock(ctx context.Context, store config.StoreConfig) (string, error) {
	page, err := c.fetcher.Fetch(ctx, store.Homepage)
	if err != nil {
		return "", err
	}
	block, err := FirstHeadStyle(page.Body)
	if err != nil {
		return "", apperror.Render("parse homepage", err)
	}
	return block, nil
}

// FirstHeadStyle parses an HTML document and renders the first <style>
// descendant of <head>.
func FirstHeadStyle(document []byte) (string, error) {
	root, err := html.Parse(bytes.NewReader(document))
	if err != nil {
		return "", err
	}

	head := findFirst(root, atom.Head)
	if head == nil {
		return "", nil
	}
	styleNode := findFirst(head, atom.Style)
	if styleNode == nil {
		return "", nil
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, styleNode); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// findFirst walks n depth-first in document order.
func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findFirst(child, a); found != nil {
			return found
		}
	}
	return nil
}
