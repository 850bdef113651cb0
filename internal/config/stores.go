package config

import (
	"sort"
	"strings"
)

// Logical asset names a store can declare.
const (
	AssetCSSTheme     = "cssThemeUrl"
	AssetJSTheme      = "jsThemeUrl"
	AssetSettingsData = "settingsData"
)

// FontFace is one weight/style variant of a font family.
type FontFace struct {
	URL    string `mapstructure:"url" validate:"required,url"`
	Format string `mapstructure:"format" validate:"required"`
	Weight int    `mapstructure:"weight" validate:"min=1,max=1000"`
	Style  string `mapstructure:"style" validate:"required"`
}

// FontFamily keeps the family name next to its faces; viper lowercases map
// keys, so families are listed instead of keyed.
type FontFamily struct {
	Family string     `mapstructure:"family" validate:"required"`
	Faces  []FontFace `mapstructure:"faces" validate:"min=1,dive"`
}

// StoreConfig describes one remote storefront.
type StoreConfig struct {
	Homepage     string            `mapstructure:"homepage" validate:"required,url"`
	CSSThemeURL  string            `mapstructure:"cssThemeUrl" validate:"required,url"`
	JSThemeURL   string            `mapstructure:"jsThemeUrl" validate:"required,url"`
	SettingsData string            `mapstructure:"settingsData" validate:"omitempty,url"`
	Assets       map[string]string `mapstructure:"assets" validate:"dive,url"`
	Fonts        []FontFamily      `mapstructure:"fonts" validate:"dive"`
}

// AssetURL resolves a logical asset name to its remote URL.
func (s StoreConfig) AssetURL(name string) (string, bool) {
	var url string
	switch name {
	case AssetCSSTheme:
		url = s.CSSThemeURL
	case AssetJSTheme:
		url = s.JSThemeURL
	case AssetSettingsData:
		url = s.SettingsData
	default:
		for k, v := range s.Assets {
			if strings.EqualFold(k, name) {
				url = v
				break
			}
		}
	}
	return url, url != ""
}

// Stores maps a store identifier to its configuration.
type Stores map[string]StoreConfig

// Lookup finds a store by identifier, ignoring case.
func (s Stores) Lookup(id string) (StoreConfig, bool) {
	if store, ok := s[id]; ok {
		return store, true
	}
	store, ok := s[strings.ToLower(id)]
	return store, ok
}

// IDs returns the store identifiers in sorted order.
func (s Stores) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DefaultStores is the store table used when config.yaml declares none.
func DefaultStores() Stores {
	return Stores{
		"vitafy": {
			Homepage:     "https://vitafy-ii.myshopify.com/",
			CSSThemeURL:  "https://vitafy-ii.myshopify.com/cdn/shop/t/3/assets/theme.css",
			JSThemeURL:   "https://vitafy-ii.myshopify.com/cdn/shop/t/3/assets/theme.js",
			SettingsData: "https://raw.githubusercontent.com/technik-vitafy/shopify-impact-theme/refs/heads/main/config/settings_data.json",
			Fonts: []FontFamily{
				{
					Family: "MuseoSans",
					Faces: []FontFace{
						{URL: "https://vitafy-ii.myshopify.com/cdn/shop/files/museo_sans_regular.woff2", Format: "woff2", Weight: 400, Style: "normal"},
						{URL: "https://vitafy-ii.myshopify.com/cdn/shop/files/museo_sans_bold.woff2", Format: "woff2", Weight: 700, Style: "normal"},
					},
				},
			},
		},
	}
}
