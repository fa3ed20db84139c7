package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuCategory struct {
	ID          string
	Name        string
	Description string
	Icon        string
	SortOrder   int
}

// OptionGroup declares one customization axis of a menu item, e.g. spice
// level. MultiSelect groups accept any subset of Options, single-select
// groups accept exactly one.
type OptionGroup struct {
	Name        string   `json:"name"`
	Options     []string `json:"options"`
	MultiSelect bool     `json:"multiSelect"`
}

type MenuItem struct {
	ID           string
	CategoryID   string
	Name         string
	Description  string
	BasePrice    decimal.Decimal
	Popular      bool
	Spicy        bool
	Available    bool
	OptionGroups []OptionGroup
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateCustomizations checks a requested customization set against the
// item's declared option groups. Unknown groups, unknown options and
// multiple selections on a single-select group are all rejected.
func (m *MenuItem) ValidateCustomizations(c Customizations) error {
	groups := make(map[string]OptionGroup, len(m.OptionGroups))
	for _, g := range m.OptionGroups {
		groups[g.Name] = g
	}

	for name, selected := range c {
		group, ok := groups[name]
		if !ok {
			return &UnknownOptionError{Item: m.Name, Group: name}
		}
		if !group.MultiSelect && len(selected) > 1 {
			return &UnknownOptionError{Item: m.Name, Group: name, Message: "group accepts a single option"}
		}
		for _, opt := range selected {
			if !containsOption(group.Options, opt) {
				return &UnknownOptionError{Item: m.Name, Group: name, Option: opt}
			}
		}
	}
	return nil
}

func containsOption(options []string, opt string) bool {
	for _, o := range options {
		if o == opt {
			return true
		}
	}
	return false
}

type UnknownOptionError struct {
	Item    string
	Group   string
	Option  string
	Message string
}

func (e *UnknownOptionError) Error() string {
	switch {
	case e.Message != "":
		return "invalid customization for " + e.Item + ": " + e.Group + ": " + e.Message
	case e.Option != "":
		return "invalid customization for " + e.Item + ": unknown option " + e.Option + " in group " + e.Group
	default:
		return "invalid customization for " + e.Item + ": unknown group " + e.Group
	}
}
