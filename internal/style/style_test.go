package style

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bassista/go_preview/internal/apperror"
	"github.com/bassista/go_preview/internal/config"
	"github.com/bassista/go_preview/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	pages map[string]string
	err   error
	calls int
}

func (s *stubFetcher) Fetch(_ context.Context, rawURL string) (remote.Asset, error) {
	s.calls++
	if s.err != nil {
		return remote.Asset{}, s.err
	}
	return remote.Asset{Body: []byte(s.pages[rawURL])}, nil
}

const homepage = `<!doctype html>
<html>
<head>
  <title>Shop</title>
  <style>:root { --color-primary: #123456; --spacing: 4px; }</style>
  <style>.second { color: red; }</style>
</head>
<body><style>.body-style {}</style></body>
</html>`

func TestFontFaceBlock(t *testing.T) {
	store := config.DefaultStores()["vitafy"]

	block := FontFaceBlock(store)

	assert.Equal(t, 1, strings.Count(block, "<style>"), "one style block per family")
	assert.Equal(t, 2, strings.Count(block, "@font-face"), "one rule per face")
	assert.Contains(t, block, "font-family: 'MuseoSans';")
	assert.Contains(t, block, "src: url('https://vitafy-ii.myshopify.com/cdn/shop/files/museo_sans_bold.woff2') format('woff2');")
	assert.Contains(t, block, "font-weight: 700;")
	assert.Contains(t, block, "font-style: normal;")
}

func TestFontFaceBlock_MultipleFamilies(t *testing.T) {
	store := config.StoreConfig{Fonts: []config.FontFamily{
		{Family: "A", Faces: []config.FontFace{{URL: "https://f/a.woff2", Format: "woff2", Weight: 400, Style: "normal"}}},
		{Family: "B", Faces: []config.FontFace{{URL: "https://f/b.woff", Format: "woff", Weight: 300, Style: "italic"}}},
	}}

	block := FontFaceBlock(store)

	assert.Equal(t, 2, strings.Count(block, "<style>"))
	assert.Less(t, strings.Index(block, "'A'"), strings.Index(block, "'B'"), "families keep declaration order")
}

func TestFontFaceBlock_NoFonts(t *testing.T) {
	assert.Equal(t, "", FontFaceBlock(config.StoreConfig{}))
}

func TestFirstHeadStyle(t *testing.T) {
	block, err := FirstHeadStyle([]byte(homepage))

	require.NoError(t, err)
	assert.Equal(t, "<style>:root { --color-primary: #123456; --spacing: 4px; }</style>", block)
}

func TestFirstHeadStyle_NoStyleInHead(t *testing.T) {
	block, err := FirstHeadStyle([]byte(`<html><head><title>x</title></head><body><style>.a{}</style></body></html>`))

	require.NoError(t, err)
	assert.Equal(t, "", block)
}

func TestFirstHeadStyle_KeepsAttributes(t *testing.T) {
	block, err := FirstHeadStyle([]byte(`<html><head><style data-shopify>:root{--x:1}</style></head></html>`))

	require.NoError(t, err)
	assert.Equal(t, `<style data-shopify="">:root{--x:1}</style>`, block)
}

func TestComposer_Compose(t *testing.T) {
	stores := config.DefaultStores()
	f := &stubFetcher{pages: map[string]string{stores["vitafy"].Homepage: homepage}}

	sc, err := NewComposer(stores, f).Compose(context.Background(), "vitafy")

	require.NoError(t, err)
	assert.Contains(t, sc.CSSVariables, "--color-primary")
	assert.Contains(t, sc.FontFaces, "@font-face")
	assert.Equal(t, 1, f.calls)
}

func TestComposer_Compose_NetworkErrorPropagates(t *testing.T) {
	f := &stubFetcher{err: apperror.Network("fetch homepage", errors.New("dial tcp: refused"))}

	_, err := NewComposer(config.DefaultStores(), f).Compose(context.Background(), "vitafy")

	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindNetwork))
}

func TestComposer_Compose_UnknownStore(t *testing.T) {
	f := &stubFetcher{}

	_, err := NewComposer(config.DefaultStores(), f).Compose(context.Background(), "nope")

	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConfiguration))
	assert.Equal(t, 0, f.calls)
}
