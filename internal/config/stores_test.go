package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreConfig_AssetURL(t *testing.T) {
	store := DefaultStores()["vitafy"]
	store.Assets = map[string]string{"vendorjs": "https://vitafy-ii.myshopify.com/cdn/shop/t/3/assets/vendor.js"}

	tests := []struct {
		name   string
		asset  string
		want   string
		wantOK bool
	}{
		{"css theme", AssetCSSTheme, "https://vitafy-ii.myshopify.com/cdn/shop/t/3/assets/theme.css", true},
		{"js theme", AssetJSTheme, "https://vitafy-ii.myshopify.com/cdn/shop/t/3/assets/theme.js", true},
		{"settings data", AssetSettingsData, store.SettingsData, true},
		{"extra asset ignores case", "vendorJs", "https://vitafy-ii.myshopify.com/cdn/shop/t/3/assets/vendor.js", true},
		{"undeclared", "logoUrl", "", false},
		{"homepage is not an asset", "homepage", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := store.AssetURL(tt.asset)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStoreConfig_EmptySettingsIsUndeclared(t *testing.T) {
	store := StoreConfig{CSSThemeURL: "https://a/theme.css"}
	_, ok := store.AssetURL(AssetSettingsData)
	assert.False(t, ok)
}

func TestStores_LookupAndIDs(t *testing.T) {
	stores := Stores{"vitafy": {}, "acme": {}}

	_, ok := stores.Lookup("VITAFY")
	assert.True(t, ok)
	_, ok = stores.Lookup("unknown")
	assert.False(t, ok)
	assert.Equal(t, []string{"acme", "vitafy"}, stores.IDs())
}
