// Package menu holds the static restaurant catalog and the text matching
// used to spot catalog items in free-form chat text.
package menu

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Category string

const (
	CategorySpecials   Category = "specials"
	CategorySandwiches Category = "sandwiches"
	CategorySides      Category = "sides"
	CategoryStarters   Category = "starters"
	CategoryDrinks     Category = "drinks"
)

type Item struct {
	ID          string   `mapstructure:"id" json:"id"`
	Name        string   `mapstructure:"name" json:"name"`
	Description string   `mapstructure:"description" json:"description"`
	Price       string   `mapstructure:"price" json:"price"`
	Category    Category `mapstructure:"category" json:"category"`
	ImageURL    string   `mapstructure:"image_url" json:"image_url,omitempty"`
}

type Restaurant struct {
	Name     string `mapstructure:"name" json:"name"`
	Address  string `mapstructure:"address" json:"address"`
	Hours    string `mapstructure:"hours" json:"hours"`
	Phone    string `mapstructure:"phone" json:"phone"`
	OrderURL string `mapstructure:"order_url" json:"order_url"`
}

// Site is the static site content: restaurant facts plus the menu catalog.
// Loaded once at startup and never mutated.
type Site struct {
	Restaurant Restaurant
	Catalog    *Catalog
}

type Catalog struct {
	items []Item
}

func NewCatalog(items []Item) *Catalog {
	return &Catalog{items: append([]Item(nil), items...)}
}

// Items returns the catalog in menu order.
func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.items...)
}

// Detect returns every catalog item whose name appears as a case-insensitive
// substring of text, in catalog order.
func (c *Catalog) Detect(text string) []Item {
	lower := strings.ToLower(text)
	var found []Item
	for _, item := range c.items {
		if strings.Contains(lower, strings.ToLower(item.Name)) {
			found = append(found, item)
		}
	}
	return found
}

// LoadSite reads the site content JSON (restaurant facts + menu items).
func LoadSite(path string) (*Site, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read site content file %s: %w", path, err)
	}

	var content struct {
		Restaurant Restaurant `mapstructure:"restaurant"`
		Menu       []Item     `mapstructure:"menu"`
	}
	if err := v.Unmarshal(&content); err != nil {
		return nil, fmt.Errorf("failed to decode site content: %w", err)
	}
	if len(content.Menu) == 0 {
		return nil, fmt.Errorf("site content %s contains no menu items", path)
	}
	if content.Restaurant.Phone == "" {
		return nil, fmt.Errorf("site content %s is missing the restaurant phone number", path)
	}

	return &Site{
		Restaurant: content.Restaurant,
		Catalog:    NewCatalog(content.Menu),
	}, nil
}
