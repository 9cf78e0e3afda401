package models

import "time"

type MenuCategory struct {
	ID        string    `json:"id" yaml:"-"`
	Name      string    `json:"name" yaml:"name"`
	Slug      string    `json:"slug" yaml:"slug"`
	SortOrder int64     `json:"sort_order" yaml:"sort_order"`
	IsActive  bool      `json:"is_active" yaml:"is_active"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`

	// Items is populated only on menu fetch.
	Items []MenuItem `json:"items,omitempty" yaml:"items"`
}

type MenuItem struct {
	ID           string              `json:"id" yaml:"-"`
	CategorySlug string              `json:"category_slug" yaml:"category_slug"`
	Name         string              `json:"name" yaml:"name"`
	Description  string              `json:"description,omitempty" yaml:"description"`
	Price        float64             `json:"price" yaml:"price"`
	Image        string              `json:"image,omitempty" yaml:"image"`
	Options      map[string][]string `json:"options,omitempty" yaml:"options"`
	IsActive     bool                `json:"is_active" yaml:"is_active"`
	CreatedAt    time.Time           `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time           `json:"updated_at" yaml:"-"`
}
