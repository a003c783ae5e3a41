package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"menu-bot/models"
	"menu-bot/services"
)

var validate = validator.New()

const (
	keepValue  = "."
	skipValue  = "-"
	maxCodeLen = 12
)

type draftField int

const (
	fieldCode draftField = iota
	fieldNamePT
	fieldNameEN
	fieldNameFR
	fieldNameDE
	fieldPrice
	fieldDescPT
	fieldDescEN
	fieldDescFR
	fieldDescDE
	fieldPhoto
	fieldDone
)

var errKeepOnNew = errors.New("there is no current value to keep")

// itemDraft walks the admin through an item one field per message:
// code, four names, price, optional four descriptions, optional photo.
type itemDraft struct {
	categoryID string
	item       models.MenuItem
	desc       models.Localized
	hasDesc    bool
	isNew      bool
	field      draftField
}

func newItemDraft(categoryID string) *itemDraft {
	return &itemDraft{categoryID: categoryID, item: models.MenuItem{ID: services.NewItemID()}, isNew: true}
}

func editItemDraft(categoryID string, item models.MenuItem) *itemDraft {
	d := &itemDraft{categoryID: categoryID, item: item.Clone()}
	if item.Description != nil {
		d.desc = *item.Description
		d.hasDesc = true
	}
	return d
}

func (d *itemDraft) done() bool { return d.field == fieldDone }

func nameLang(f draftField) models.Language {
	return models.Languages[int(f-fieldNamePT)]
}

func descLang(f draftField) models.Language {
	return models.Languages[int(f-fieldDescPT)]
}

// prompt is the question for the current field.
func (d *itemDraft) prompt() string {
	var q, cur string
	switch {
	case d.field == fieldCode:
		q, cur = "Send the item code (e.g. 20):", d.item.Code
	case d.field >= fieldNamePT && d.field <= fieldNameDE:
		l := nameLang(d.field)
		q, cur = fmt.Sprintf("Send the name in %s:", l.Label()), d.item.Name.Get(l)
	case d.field == fieldPrice:
		q = "Send the price (e.g. 8.75):"
		if !d.isNew {
			cur = d.item.Price.StringFixed(2)
		}
	case d.field == fieldDescPT:
		q = fmt.Sprintf("Send the description in %s, or %s for none:", models.LangPT.Label(), skipValue)
		if d.hasDesc {
			cur = d.desc.PT
		}
	case d.field >= fieldDescEN && d.field <= fieldDescDE:
		l := descLang(d.field)
		q, cur = fmt.Sprintf("Send the description in %s:", l.Label()), d.desc.Get(l)
	case d.field == fieldPhoto:
		q = fmt.Sprintf("Send a photo or an image URL, or %s for none:", skipValue)
		cur = d.item.Image
	}
	if cur != "" {
		q += fmt.Sprintf("\n\nCurrent: %s\nSend %s to keep it.", cur, keepValue)
	}
	return q
}

// apply consumes one answer and advances to the next field.
func (d *itemDraft) apply(text string) error {
	text = strings.TrimSpace(text)
	keep := text == keepValue
	switch {
	case d.field == fieldCode:
		if keep {
			if d.item.Code == "" {
				return errKeepOnNew
			}
			break
		}
		if err := validate.Var(text, fmt.Sprintf("required,max=%d,printascii", maxCodeLen)); err != nil {
			return fmt.Errorf("code must be 1-%d plain characters", maxCodeLen)
		}
		d.item.Code = text
	case d.field >= fieldNamePT && d.field <= fieldNameDE:
		l := nameLang(d.field)
		if keep {
			if d.item.Name.Get(l) == "" {
				return errKeepOnNew
			}
			break
		}
		if text == "" {
			return models.ErrMissingTranslation
		}
		d.item.Name = d.item.Name.With(l, text)
	case d.field == fieldPrice:
		if keep {
			if d.isNew {
				return errKeepOnNew
			}
			break
		}
		p, err := parsePrice(text)
		if err != nil {
			return err
		}
		d.item.Price = p
	case d.field == fieldDescPT:
		switch {
		case text == skipValue:
			d.hasDesc = false
			d.desc = models.Localized{}
			d.field = fieldPhoto
			return nil
		case keep:
			if !d.hasDesc {
				return errKeepOnNew
			}
		case text == "":
			return models.ErrMissingTranslation
		default:
			d.desc.PT = text
			d.hasDesc = true
		}
	case d.field >= fieldDescEN && d.field <= fieldDescDE:
		l := descLang(d.field)
		if keep {
			if d.desc.Get(l) == "" {
				return errKeepOnNew
			}
			break
		}
		if text == "" {
			return models.ErrMissingTranslation
		}
		d.desc = d.desc.With(l, text)
	case d.field == fieldPhoto:
		switch {
		case text == skipValue:
			d.item.Image = ""
		case keep:
		default:
			if err := validate.Var(text, "required,url"); err != nil {
				return errors.New("send a photo, an http(s) URL, or " + skipValue)
			}
			d.item.Image = text
		}
	default:
		return nil
	}
	d.field++
	return nil
}

// applyPhoto sets the image from an uploaded Telegram photo.
func (d *itemDraft) applyPhoto(fileID string) bool {
	if d.field != fieldPhoto {
		return false
	}
	d.item.Image = fileID
	d.field = fieldDone
	return true
}

// result is the finished item.
func (d *itemDraft) result() models.MenuItem {
	it := d.item.Clone()
	it.Description = nil
	if d.hasDesc {
		desc := d.desc
		it.Description = &desc
	}
	return it
}

// parsePrice accepts "8.75", "8,75" and "8.75€".
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "€"))
	s = strings.ReplaceAll(s, ",", ".")
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("price must be a number like 8.75")
	}
	if p.IsNegative() {
		return decimal.Zero, errors.New("price must not be negative")
	}
	return p.Round(2), nil
}

type contactStep int

const (
	contactLabel contactStep = iota
	contactValue
)

type contactDraft struct {
	step  contactStep
	label string
}
