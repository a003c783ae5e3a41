package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"menu-bot/lang"
	"menu-bot/models"
	"menu-bot/services"
)

// parseCallback splits "verb:arg" callback data. Data without a colon is a
// bare verb.
func parseCallback(data string) (verb, arg string) {
	verb, arg, _ = strings.Cut(data, ":")
	return verb, arg
}

func price(d decimal.Decimal, currency string) string {
	return services.FormatPrice(d, currency)
}

func itemLabel(it models.MenuItem, l models.Language, currency string) string {
	return fmt.Sprintf("#%s %s · %s", it.Code, it.Name.Get(l), price(it.Price, currency))
}

func cartButton(cart *services.Cart, l models.Language, currency string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "cart_btn", cart.ItemCount(), price(cart.Total(), currency)), "cart")
}

// categoryKeyboard lists categories two per row, then "all", then the cart
// button when the cart has something in it.
func categoryKeyboard(categories []models.MenuCategory, cart *services.Cart, l models.Language, currency string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range categories {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(c.Title.Get(l), "cat:"+c.ID))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "all_categories"), "cat:"),
	))
	if cart != nil && !cart.IsEmpty() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(cartButton(cart, l, currency)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// itemsKeyboard has one add button per visible item, then navigation.
func itemsKeyboard(categories []models.MenuCategory, cart *services.Cart, l models.Language, currency string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range categories {
		for _, it := range c.Items {
			label := itemLabel(it, l, currency)
			if q := cart.Quantity(it.ID); q > 0 {
				label = fmt.Sprintf("%s (%d)", label, q)
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(label, "add:"+it.ID),
			))
		}
	}
	nav := []tgbotapi.InlineKeyboardButton{tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "back"), "menu")}
	if !cart.IsEmpty() {
		nav = append(nav, cartButton(cart, l, currency))
	}
	rows = append(rows, nav)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// itemsText titles a list of filtered categories.
func itemsText(categories []models.MenuCategory, l models.Language) string {
	titles := make([]string, len(categories))
	for i, c := range categories {
		titles[i] = c.Title.Get(l)
	}
	return lang.T(l, "items_header", strings.Join(titles, " · "))
}

func cartText(cart *services.Cart, l models.Language, currency string) string {
	if cart.IsEmpty() {
		return lang.T(l, "cart_empty")
	}
	var b strings.Builder
	b.WriteString(lang.T(l, "cart_header"))
	for _, ci := range cart.Items() {
		fmt.Fprintf(&b, "%dx #%s %s · %s\n", ci.Quantity, ci.Item.Code, ci.Item.Name.Get(l), price(ci.Subtotal(), currency))
	}
	b.WriteString(lang.T(l, "cart_total", price(cart.Total(), currency)))
	return b.String()
}

func cartKeyboard(cart *services.Cart, l models.Language) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, ci := range cart.Items() {
		id := ci.Item.ID
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➖", "dec:"+id),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d× #%s", ci.Quantity, ci.Item.Code), "noop"),
			tgbotapi.NewInlineKeyboardButtonData("➕", "inc:"+id),
			tgbotapi.NewInlineKeyboardButtonData("❌", "del:"+id),
		))
	}
	if !cart.IsEmpty() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "checkout_btn"), "checkout"),
			tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "clear_btn"), "clear"),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(lang.T(l, "back"), "menu"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(models.Languages))
	for _, l := range models.Languages {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(l.Label(), "lang:"+string(l)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func contactsText(contacts []models.Contact, address string, l models.Language) string {
	if len(contacts) == 0 && address == "" {
		return lang.T(l, "no_contacts")
	}
	var b strings.Builder
	if len(contacts) > 0 {
		b.WriteString(lang.T(l, "contacts_header"))
		b.WriteString("\n")
		for _, c := range contacts {
			fmt.Fprintf(&b, "• %s: %s\n", c.Label, c.Value)
		}
	}
	if address != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(lang.T(l, "address", address))
	}
	return strings.TrimRight(b.String(), "\n")
}

// shareKeyboard offers the messaging and social share links as URL buttons.
func shareKeyboard(links services.ShareLinks) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonURL("WhatsApp", links.WhatsApp),
		tgbotapi.NewInlineKeyboardButtonURL("Facebook", links.Facebook),
	))
}
