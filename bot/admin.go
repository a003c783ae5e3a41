package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"menu-bot/config"
	"menu-bot/models"
	"menu-bot/services"
)

// adminState is the flow an admin is in. At most one field is set.
type adminState struct {
	draft   *itemDraft
	contact *contactDraft
	address bool
}

// AdminBot edits the catalog. Only the Telegram user ADMIN_ID may use it.
type AdminBot struct {
	tg       *tgbotapi.BotAPI
	api      sender
	store    *services.CatalogStore
	adminID  int64
	currency string

	state   map[int64]*adminState
	stateMu sync.Mutex
}

func NewAdminBot(cfg *config.Config, store *services.CatalogStore) (*AdminBot, error) {
	if cfg.Telegram.AdminToken == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN not set")
	}
	if cfg.Telegram.AdminID == 0 {
		return nil, fmt.Errorf("ADMIN_ID not set")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.AdminToken)
	if err != nil {
		return nil, err
	}
	a := newAdminBot(api, cfg, store)
	a.tg = api
	return a, nil
}

func newAdminBot(api sender, cfg *config.Config, store *services.CatalogStore) *AdminBot {
	return &AdminBot{
		api:      api,
		store:    store,
		adminID:  cfg.Telegram.AdminID,
		currency: cfg.Order.Currency,
		state:    make(map[int64]*adminState),
	}
}

func (a *AdminBot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := a.tg.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		a.tg.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			a.handleCallback(ctx, update.CallbackQuery)
		case update.Message != nil:
			a.handleMessage(ctx, update.Message)
		}
	}
}

func (a *AdminBot) send(chatID int64, text string) {
	if _, err := a.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Error().Err(err).Msg("admin send")
	}
}

func (a *AdminBot) sendWithInline(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := a.api.Send(msg); err != nil {
		log.Error().Err(err).Msg("admin send")
	}
}

func (a *AdminBot) getState(userID int64) *adminState {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	return a.state[userID]
}

func (a *AdminBot) setState(userID int64, st *adminState) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	if st == nil {
		delete(a.state, userID)
		return
	}
	a.state[userID] = st
}

// reportSave tells the admin how a mutation went. A failed save still
// changed the live menu, so that case is a warning.
func (a *AdminBot) reportSave(chatID int64, err error, okText string) bool {
	var pe *services.PersistError
	switch {
	case err == nil:
		a.send(chatID, "✅ "+okText)
	case errors.As(err, &pe):
		a.send(chatID, "⚠️ "+okText+", but it could not be saved and will be lost on restart: "+pe.Err.Error())
	default:
		a.send(chatID, "❌ "+err.Error())
		return false
	}
	return true
}

func (a *AdminBot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	chatID := msg.Chat.ID
	userID := msg.From.ID
	if userID != a.adminID {
		a.send(chatID, "🔒 This bot is for the restaurant admin only.")
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "cancel":
			a.setState(userID, nil)
			a.send(chatID, "Cancelled.")
		}
		a.sendPanel(chatID)
		return
	}

	st := a.getState(userID)
	switch {
	case st == nil:
		a.sendPanel(chatID)
	case st.draft != nil:
		if len(msg.Photo) > 0 {
			if st.draft.applyPhoto(msg.Photo[len(msg.Photo)-1].FileID) {
				a.finishDraft(ctx, chatID, userID, st.draft)
				return
			}
		}
		if err := st.draft.apply(msg.Text); err != nil {
			a.send(chatID, "❌ "+err.Error()+"\n\n"+st.draft.prompt())
			return
		}
		if st.draft.done() {
			a.finishDraft(ctx, chatID, userID, st.draft)
			return
		}
		a.send(chatID, st.draft.prompt())
	case st.contact != nil:
		a.contactFlow(ctx, chatID, userID, st.contact, strings.TrimSpace(msg.Text))
	case st.address:
		if strings.TrimSpace(msg.Text) == "" {
			a.send(chatID, "Please send the address as text, or /cancel.")
			return
		}
		a.setState(userID, nil)
		a.reportSave(chatID, a.store.ReplaceAddress(ctx, msg.Text), "Address updated")
		a.sendPanel(chatID)
	}
}

func (a *AdminBot) finishDraft(ctx context.Context, chatID, userID int64, d *itemDraft) {
	a.setState(userID, nil)
	item := d.result()
	verb := "Item updated"
	if d.isNew {
		verb = "Item added"
	}
	if a.reportSave(chatID, a.store.UpsertItem(ctx, d.categoryID, item), fmt.Sprintf("%s: #%s %s", verb, item.Code, item.Name.PT)) {
		log.Info().Str("category", d.categoryID).Str("item", item.ID).Bool("new", d.isNew).Msg("admin saved item")
	}
	a.sendCategory(chatID, d.categoryID)
}

func (a *AdminBot) contactFlow(ctx context.Context, chatID, userID int64, cd *contactDraft, text string) {
	if text == "" {
		a.send(chatID, "Please send some text, or /cancel.")
		return
	}
	if cd.step == contactLabel {
		cd.label = text
		cd.step = contactValue
		a.send(chatID, "Send the number for «"+text+"»:")
		return
	}
	a.setState(userID, nil)
	contacts := append(a.store.Contacts(), models.Contact{ID: services.NewItemID(), Label: cd.label, Value: text})
	a.reportSave(chatID, a.store.ReplaceContacts(ctx, contacts), "Contact added")
	a.sendContacts(chatID)
}

func (a *AdminBot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.From == nil {
		return
	}
	if _, err := a.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		log.Debug().Err(err).Msg("admin answer callback")
	}
	if cq.From.ID != a.adminID {
		return
	}
	chatID := cq.Message.Chat.ID
	userID := cq.From.ID

	verb, arg := parseCallback(strings.TrimPrefix(cq.Data, "adm:"))
	switch verb {
	case "panel":
		a.setState(userID, nil)
		a.sendPanel(chatID)
	case "cat":
		a.sendCategory(chatID, arg)
	case "new":
		if _, ok := a.store.Category(arg); !ok {
			a.send(chatID, "❌ Unknown category.")
			return
		}
		d := newItemDraft(arg)
		a.setState(userID, &adminState{draft: d})
		a.send(chatID, "➕ New item. /cancel to stop.\n\n"+d.prompt())
	case "edit":
		item, ok := a.store.Item(arg)
		catID, _ := a.store.ItemCategory(arg)
		if !ok {
			a.send(chatID, "❌ That item no longer exists.")
			return
		}
		d := editItemDraft(catID, item)
		a.setState(userID, &adminState{draft: d})
		a.send(chatID, fmt.Sprintf("✏️ Editing #%s %s. /cancel to stop.\n\n%s", item.Code, item.Name.PT, d.prompt()))
	case "del":
		item, ok := a.store.Item(arg)
		catID, _ := a.store.ItemCategory(arg)
		if !ok {
			a.send(chatID, "That item was already removed.")
			return
		}
		a.sendWithInline(chatID, fmt.Sprintf("🗑 Delete #%s %s?", item.Code, item.Name.PT),
			tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Delete", "adm:delok:"+arg),
				tgbotapi.NewInlineKeyboardButtonData("✖️ Keep", "adm:cat:"+catID),
			)))
	case "delok":
		catID, ok := a.store.ItemCategory(arg)
		if !ok {
			a.send(chatID, "That item was already removed.")
			return
		}
		a.reportSave(chatID, a.store.RemoveItem(ctx, catID, arg), "Item removed")
		a.sendCategory(chatID, catID)
	case "order":
		a.sendOrder(chatID)
	case "up", "down":
		delta := -1
		if verb == "down" {
			delta = 1
		}
		if err := a.store.MoveCategory(ctx, arg, delta); err != nil {
			a.reportSave(chatID, err, "Order changed")
		}
		a.sendOrder(chatID)
	case "contacts":
		a.sendContacts(chatID)
	case "cadd":
		a.setState(userID, &adminState{contact: &contactDraft{}})
		a.send(chatID, "Send the label for the new contact (e.g. Telemóvel). /cancel to stop.")
	case "cdel":
		var kept []models.Contact
		for _, c := range a.store.Contacts() {
			if c.ID != arg {
				kept = append(kept, c)
			}
		}
		if kept == nil {
			kept = []models.Contact{}
		}
		a.reportSave(chatID, a.store.ReplaceContacts(ctx, kept), "Contact removed")
		a.sendContacts(chatID)
	case "address":
		a.setState(userID, &adminState{address: true})
		cur := a.store.Address()
		a.send(chatID, fmt.Sprintf("Send the new address. /cancel to stop.\n\nCurrent: %s", cur))
	}
}

func (a *AdminBot) sendPanel(chatID int64) {
	a.sendWithInline(chatID, "📋 Menu admin\n\nPick a category to edit its items, or manage order, contacts and address.", adminPanelKeyboard(a.store.Categories()))
}

func (a *AdminBot) sendCategory(chatID int64, catID string) {
	c, ok := a.store.Category(catID)
	if !ok {
		a.send(chatID, "❌ Unknown category.")
		a.sendPanel(chatID)
		return
	}
	text := fmt.Sprintf("📋 %s: %d items. Tap an item to edit it.", c.Title.PT, len(c.Items))
	a.sendWithInline(chatID, text, adminCategoryKeyboard(c, a.currency))
}

func (a *AdminBot) sendOrder(chatID int64) {
	a.sendWithInline(chatID, "↕️ Category order:", adminOrderKeyboard(a.store.Categories()))
}

func (a *AdminBot) sendContacts(chatID int64) {
	contacts := a.store.Contacts()
	text := contactsText(contacts, a.store.Address(), models.LangEN)
	a.sendWithInline(chatID, text, adminContactsKeyboard(contacts))
}

func adminPanelKeyboard(categories []models.MenuCategory) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📂 "+c.Title.PT, "adm:cat:"+c.ID),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("↕️ Category order", "adm:order")),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📞 Contacts", "adm:contacts"),
			tgbotapi.NewInlineKeyboardButtonData("📍 Address", "adm:address"),
		),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminCategoryKeyboard(c models.MenuCategory, currency string) tgbotapi.InlineKeyboardMarkup {
	if currency == "" {
		currency = services.DefaultCurrency
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range c.Items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ "+itemLabel(it, models.LangPT, currency), "adm:edit:"+it.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑", "adm:del:"+it.ID),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("➕ New item", "adm:new:"+c.ID)),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("« Back to panel", "adm:panel")),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminOrderKeyboard(categories []models.MenuCategory) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, c := range categories {
		row := []tgbotapi.InlineKeyboardButton{tgbotapi.NewInlineKeyboardButtonData(c.Title.PT, "adm:cat:"+c.ID)}
		if i > 0 {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬆️", "adm:up:"+c.ID))
		}
		if i < len(categories)-1 {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬇️", "adm:down:"+c.ID))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("« Back to panel", "adm:panel")))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminContactsKeyboard(contacts []models.Contact) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, c := range contacts {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+c.Label+": "+c.Value, "adm:cdel:"+c.ID),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add contact", "adm:cadd"),
			tgbotapi.NewInlineKeyboardButtonData("📍 Address", "adm:address"),
		),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("« Back to panel", "adm:panel")),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
