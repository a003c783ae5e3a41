package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Language is one of the display languages the menu is written in.
type Language string

const (
	LangPT Language = "pt"
	LangEN Language = "en"
	LangFR Language = "fr"
	LangDE Language = "de"

	DefaultLanguage = LangPT
)

// Languages lists every supported language in display order.
var Languages = []Language{LangPT, LangEN, LangFR, LangDE}

var (
	ErrInvalidLanguage    = errors.New("invalid language")
	ErrMissingTranslation = errors.New("missing translation")
	ErrInvalidItem        = errors.New("invalid menu item")
)

func init() {
	// Keep prices as plain JSON numbers (8.75, not "8.75") in the stored blob.
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseLanguage accepts "pt", "en", "fr" or "de" (any case).
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case LangPT, LangEN, LangFR, LangDE:
		return l, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, s)
}

// Label is the language's own name, used on language pickers.
func (l Language) Label() string {
	switch l {
	case LangPT:
		return "Português"
	case LangEN:
		return "English"
	case LangFR:
		return "Français"
	case LangDE:
		return "Deutsch"
	}
	return string(l)
}

// Localized holds one string per supported language.
type Localized struct {
	PT string `json:"pt"`
	EN string `json:"en"`
	FR string `json:"fr"`
	DE string `json:"de"`
}

// NewLocalized builds a Localized from a language map, rejecting maps that
// miss any supported language.
func NewLocalized(m map[Language]string) (Localized, error) {
	l := Localized{PT: m[LangPT], EN: m[LangEN], FR: m[LangFR], DE: m[LangDE]}
	if err := l.Validate(); err != nil {
		return Localized{}, err
	}
	return l, nil
}

// Get returns the text for lang, falling back to Portuguese for unknown codes.
func (l Localized) Get(lang Language) string {
	switch lang {
	case LangEN:
		return l.EN
	case LangFR:
		return l.FR
	case LangDE:
		return l.DE
	default:
		return l.PT
	}
}

// With returns a copy of l with lang set to text.
func (l Localized) With(lang Language, text string) Localized {
	switch lang {
	case LangEN:
		l.EN = text
	case LangFR:
		l.FR = text
	case LangDE:
		l.DE = text
	default:
		l.PT = text
	}
	return l
}

// Values returns the texts in Languages order.
func (l Localized) Values() []string {
	return []string{l.PT, l.EN, l.FR, l.DE}
}

func (l Localized) Validate() error {
	for _, lang := range Languages {
		if strings.TrimSpace(l.Get(lang)) == "" {
			return fmt.Errorf("%w: %s", ErrMissingTranslation, lang)
		}
	}
	return nil
}

type MenuItem struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        Localized       `json:"name"`
	Description *Localized      `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
}

func (it MenuItem) Validate() error {
	if strings.TrimSpace(it.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	if strings.TrimSpace(it.Code) == "" {
		return fmt.Errorf("%w: code is required", ErrInvalidItem)
	}
	if err := it.Name.Validate(); err != nil {
		return fmt.Errorf("%w: name: %w", ErrInvalidItem, err)
	}
	if it.Description != nil {
		if err := it.Description.Validate(); err != nil {
			return fmt.Errorf("%w: description: %w", ErrInvalidItem, err)
		}
	}
	if it.Price.IsNegative() {
		return fmt.Errorf("%w: price must be >= 0", ErrInvalidItem)
	}
	return nil
}

// Clone returns a copy that shares no pointers with it.
func (it MenuItem) Clone() MenuItem {
	if it.Description != nil {
		d := *it.Description
		it.Description = &d
	}
	return it
}

type MenuCategory struct {
	ID    string     `json:"id"`
	Title Localized  `json:"title"`
	Items []MenuItem `json:"items"`
}

type Contact struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// MenuData is the whole persisted catalog.
type MenuData struct {
	Categories []MenuCategory `json:"categories"`
	Contacts   []Contact      `json:"contacts"`
	Address    string         `json:"address,omitempty"`
}

func (m MenuData) Validate() error {
	seen := make(map[string]bool)
	seenCat := make(map[string]bool, len(m.Categories))
	for _, c := range m.Categories {
		if strings.TrimSpace(c.ID) == "" {
			return errors.New("category id is required")
		}
		if seenCat[c.ID] {
			return fmt.Errorf("duplicate category id %s", c.ID)
		}
		seenCat[c.ID] = true
		if err := c.Title.Validate(); err != nil {
			return fmt.Errorf("category %s title: %w", c.ID, err)
		}
		for _, it := range c.Items {
			if err := it.Validate(); err != nil {
				return fmt.Errorf("category %s: %w", c.ID, err)
			}
			if seen[it.ID] {
				return fmt.Errorf("%w: duplicate id %s", ErrInvalidItem, it.ID)
			}
			seen[it.ID] = true
		}
	}
	return nil
}

func (m MenuData) Clone() MenuData {
	out := MenuData{Address: m.Address}
	if m.Categories != nil {
		out.Categories = make([]MenuCategory, len(m.Categories))
		for i, c := range m.Categories {
			cc := MenuCategory{ID: c.ID, Title: c.Title}
			if c.Items != nil {
				cc.Items = make([]MenuItem, len(c.Items))
				for j, it := range c.Items {
					cc.Items[j] = it.Clone()
				}
			}
			out.Categories[i] = cc
		}
	}
	if m.Contacts != nil {
		out.Contacts = append([]Contact(nil), m.Contacts...)
	}
	return out
}
