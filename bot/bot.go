package bot

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"menu-bot/config"
	"menu-bot/lang"
	"menu-bot/metrics"
	"menu-bot/models"
	"menu-bot/services"
)

// sender is the part of *tgbotapi.BotAPI the handlers use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot is the customer-facing menu bot.
type Bot struct {
	tg       *tgbotapi.BotAPI
	api      sender
	store    *services.CatalogStore
	orderCfg services.OrderConfig
	shareURL string
	sessions *sessionStore
}

func New(cfg *config.Config, store *services.CatalogStore) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	b := newBot(api, cfg, store)
	b.tg = api
	return b, nil
}

func newBot(api sender, cfg *config.Config, store *services.CatalogStore) *Bot {
	return &Bot{
		api:      api,
		store:    store,
		orderCfg: OrderConfig(cfg),
		shareURL: cfg.Share.PublicURL,
		sessions: newSessionStore(),
	}
}

// WithLanguagePrefs makes customer language choices survive restarts.
func (b *Bot) WithLanguagePrefs(p LanguagePrefs) *Bot {
	b.sessions.prefs = p
	return b
}

// OrderConfig maps the order section of cfg onto the dispatcher config.
func OrderConfig(cfg *config.Config) services.OrderConfig {
	return services.OrderConfig{
		RestaurantName:      cfg.Order.RestaurantName,
		Host:                cfg.Order.Host,
		FallbackPhone:       cfg.Order.FallbackPhone,
		Currency:            cfg.Order.Currency,
		RequireCustomerName: cfg.Order.RequireName,
		ClearOnOrder:        cfg.Order.ClearOnSend,
	}
}

func (b *Bot) currency() string {
	if b.orderCfg.Currency == "" {
		return services.DefaultCurrency
	}
	return b.orderCfg.Currency
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "menu", Description: "Menu"},
		tgbotapi.BotCommand{Command: "search", Description: "Pesquisar / Search"},
		tgbotapi.BotCommand{Command: "cart", Description: "Carrinho / Cart"},
		tgbotapi.BotCommand{Command: "language", Description: "Idioma / Language"},
		tgbotapi.BotCommand{Command: "contacts", Description: "Contactos / Contacts"},
		tgbotapi.BotCommand{Command: "share", Description: "Partilhar / Share"},
	)
	_, err := b.api.Request(cfg)
	return err
}

// Start polls for updates until ctx is done.
func (b *Bot) Start(ctx context.Context) {
	if err := b.setBotCommands(); err != nil {
		log.Warn().Err(err).Msg("set bot commands")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.tg.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		b.tg.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			b.handleCallback(ctx, update.CallbackQuery)
		case update.Message != nil:
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Error().Err(err).Msg("send")
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) sendWithInline(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	b.send(msg)
}

// edit replaces a message in place. Unchanged content is not an error.
func (b *Bot) edit(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	e := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	if _, err := b.api.Send(e); err != nil && !strings.Contains(err.Error(), "not modified") {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("edit message")
	}
}

func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Debug().Err(err).Msg("answer callback")
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	s := b.sessions.get(ctx, msg.From.ID, msg.From.LanguageCode)
	s.mu.Lock()
	defer s.mu.Unlock()
	chatID := msg.Chat.ID

	if msg.Contact != nil && s.step == stepPhone {
		b.finishCheckout(ctx, chatID, s, msg.Contact.PhoneNumber)
		return
	}

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			s.resetCheckout()
			b.sendWithInline(chatID, lang.T(s.lang, "welcome", b.orderCfg.RestaurantName),
				categoryKeyboard(b.store.Categories(), s.cart, s.lang, b.currency()))
		case "menu":
			s.resetCheckout()
			b.sendMenu(chatID, s)
		case "search":
			s.resetCheckout()
			b.search(chatID, s, msg.CommandArguments())
		case "cart":
			s.resetCheckout()
			b.sendCart(chatID, s)
		case "language":
			b.sendWithInline(chatID, lang.T(s.lang, "choose_lang"), languageKeyboard())
		case "contacts":
			b.sendContacts(chatID, s)
		case "share":
			b.sendShare(chatID, s)
		case "cancel":
			if s.step != stepNone {
				s.resetCheckout()
				b.send(removeKeyboard(chatID, lang.T(s.lang, "checkout_cancelled")))
			}
		}
		return
	}

	text := strings.TrimSpace(msg.Text)
	switch s.step {
	case stepName:
		b.checkoutName(chatID, s, text)
	case stepPhone:
		b.finishCheckout(ctx, chatID, s, text)
	default:
		if text != "" {
			b.search(chatID, s, text)
		}
	}
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.From == nil {
		return
	}
	s := b.sessions.get(ctx, cq.From.ID, cq.From.LanguageCode)
	s.mu.Lock()
	defer s.mu.Unlock()
	chatID := cq.Message.Chat.ID
	messageID := cq.Message.MessageID

	verb, arg := parseCallback(cq.Data)
	switch verb {
	case "menu":
		b.answer(cq.ID, "")
		b.edit(chatID, messageID, lang.T(s.lang, "categories"),
			categoryKeyboard(b.store.Categories(), s.cart, s.lang, b.currency()))
	case "cat":
		b.answer(cq.ID, "")
		s.viewCategory, s.viewQuery = arg, ""
		b.showItems(chatID, messageID, s)
	case "add":
		item, ok := b.store.Item(arg)
		if !ok {
			b.answer(cq.ID, lang.T(s.lang, "item_gone"))
			return
		}
		s.cart.AddItem(item)
		b.answer(cq.ID, lang.T(s.lang, "added", item.Name.Get(s.lang)))
		b.showItems(chatID, messageID, s)
	case "cart":
		b.answer(cq.ID, "")
		b.editCart(chatID, messageID, s)
	case "inc", "dec":
		delta := 1
		if verb == "dec" {
			delta = -1
		}
		s.cart.UpdateQuantity(arg, delta)
		b.answer(cq.ID, "")
		b.editCart(chatID, messageID, s)
	case "del":
		s.cart.RemoveItem(arg)
		b.answer(cq.ID, "")
		b.editCart(chatID, messageID, s)
	case "clear":
		s.cart.Clear()
		s.resetCheckout()
		b.answer(cq.ID, lang.T(s.lang, "cart_cleared"))
		b.editCart(chatID, messageID, s)
	case "checkout":
		b.answer(cq.ID, "")
		b.startCheckout(chatID, s)
	case "lang":
		l, err := models.ParseLanguage(arg)
		if err != nil {
			b.answer(cq.ID, "")
			return
		}
		s.lang = l
		b.sessions.rememberLanguage(ctx, cq.From.ID, l)
		b.answer(cq.ID, lang.T(l, "lang_set"))
		b.edit(chatID, messageID, lang.T(l, "categories"),
			categoryKeyboard(b.store.Categories(), s.cart, l, b.currency()))
	default:
		b.answer(cq.ID, "")
	}
}

func (b *Bot) sendMenu(chatID int64, s *session) {
	b.sendWithInline(chatID, lang.T(s.lang, "categories"),
		categoryKeyboard(b.store.Categories(), s.cart, s.lang, b.currency()))
}

// visible applies the session's current category and query to the live catalog.
func (b *Bot) visible(s *session) []models.MenuCategory {
	return services.FilterCategories(b.store.Categories(), s.viewCategory, s.viewQuery, s.lang)
}

func (b *Bot) showItems(chatID int64, messageID int, s *session) {
	cats := b.visible(s)
	if len(cats) == 0 {
		b.edit(chatID, messageID, lang.T(s.lang, "category_empty"),
			categoryKeyboard(b.store.Categories(), s.cart, s.lang, b.currency()))
		return
	}
	text := itemsText(cats, s.lang)
	if s.viewQuery != "" {
		text = lang.T(s.lang, "search_results", s.viewQuery, services.CountItems(cats))
	}
	b.edit(chatID, messageID, text, itemsKeyboard(cats, s.cart, s.lang, b.currency()))
}

func (b *Bot) search(chatID int64, s *session, query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		b.sendText(chatID, lang.T(s.lang, "search_usage"))
		return
	}
	metrics.Searches.WithLabelValues("telegram").Inc()
	s.viewCategory, s.viewQuery = "", query
	cats := b.visible(s)
	if len(cats) == 0 {
		b.sendText(chatID, lang.T(s.lang, "search_none", query))
		return
	}
	b.sendWithInline(chatID, lang.T(s.lang, "search_results", query, services.CountItems(cats)),
		itemsKeyboard(cats, s.cart, s.lang, b.currency()))
}

// refreshCart re-resolves the cart against the live catalog.
func (b *Bot) refreshCart(s *session) {
	s.cart.Resolve(b.store.Item)
}

func (b *Bot) sendCart(chatID int64, s *session) {
	b.refreshCart(s)
	b.sendWithInline(chatID, cartText(s.cart, s.lang, b.currency()), cartKeyboard(s.cart, s.lang))
}

func (b *Bot) editCart(chatID int64, messageID int, s *session) {
	b.refreshCart(s)
	b.edit(chatID, messageID, cartText(s.cart, s.lang, b.currency()), cartKeyboard(s.cart, s.lang))
}

func (b *Bot) sendContacts(chatID int64, s *session) {
	address := b.store.Address()
	msg := tgbotapi.NewMessage(chatID, contactsText(b.store.Contacts(), address, s.lang))
	if maps := services.MapsURL(address); maps != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(lang.T(s.lang, "open_maps"), maps),
		))
	}
	b.send(msg)
}

func (b *Bot) sendShare(chatID int64, s *session) {
	if b.shareURL == "" {
		b.sendText(chatID, lang.T(s.lang, "share_unavailable"))
		return
	}
	links := services.BuildShareLinks(b.shareURL, b.orderCfg.RestaurantName)
	text := lang.T(s.lang, "share_header") + "\n\n" + lang.T(s.lang, "copy_link", links.PageURL)
	b.sendWithInline(chatID, text, shareKeyboard(links))
}

func removeKeyboard(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	return msg
}

func (b *Bot) startCheckout(chatID int64, s *session) {
	b.refreshCart(s)
	if s.cart.IsEmpty() {
		b.sendText(chatID, lang.T(s.lang, "cart_empty"))
		return
	}
	s.step = stepName
	s.name = ""
	key := "ask_name_optional"
	if b.orderCfg.RequireCustomerName {
		key = "ask_name"
	}
	b.sendText(chatID, lang.T(s.lang, key))
}

func (b *Bot) checkoutName(chatID int64, s *session, text string) {
	if text == "-" {
		text = ""
	}
	err := services.NewDispatcher(b.orderCfg, nil).Validate(models.OrderRequest{CustomerName: text, Lang: s.lang})
	switch {
	case errors.Is(err, services.ErrCustomerNameRequired):
		metrics.OrdersRejected.WithLabelValues("name_required").Inc()
		b.sendText(chatID, lang.T(s.lang, "name_required"))
		return
	case err != nil:
		metrics.OrdersRejected.WithLabelValues("invalid").Inc()
		b.sendText(chatID, lang.T(s.lang, "name_too_long", models.MaxCustomerName))
		return
	}
	s.name = text
	s.step = stepPhone
	kb := tgbotapi.NewReplyKeyboard(tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButtonContact(lang.T(s.lang, "share_phone_btn")),
	))
	kb.OneTimeKeyboard = true
	kb.ResizeKeyboard = true
	msg := tgbotapi.NewMessage(chatID, lang.T(s.lang, "ask_phone"))
	msg.ReplyMarkup = kb
	b.send(msg)
}

// finishCheckout dispatches the order. The opener replies with the deep-link
// as a URL button; tapping it is what actually sends the order.
func (b *Bot) finishCheckout(ctx context.Context, chatID int64, s *session, phone string) {
	if phone == "-" {
		phone = ""
	}
	b.refreshCart(s)
	total := price(s.cart.Total(), b.currency())
	opener := services.OpenerFunc(func(ctx context.Context, url string) error {
		msg := tgbotapi.NewMessage(chatID, lang.T(s.lang, "order_ready", total))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(lang.T(s.lang, "open_whatsapp"), url),
		))
		_, err := b.api.Send(msg)
		return err
	})
	d := services.NewDispatcher(b.orderCfg, opener)
	req := models.OrderRequest{CustomerName: s.name, CustomerPhone: strings.TrimSpace(phone), Lang: s.lang}

	order, err := d.Dispatch(ctx, s.cart, b.store.Contacts(), req)
	switch {
	case errors.Is(err, services.ErrCustomerNameRequired):
		metrics.OrdersRejected.WithLabelValues("name_required").Inc()
		s.step = stepName
		b.send(removeKeyboard(chatID, lang.T(s.lang, "name_required")))
		return
	case services.InvalidField(err) == "CustomerPhone":
		metrics.OrdersRejected.WithLabelValues("invalid").Inc()
		b.sendText(chatID, lang.T(s.lang, "phone_too_long", models.MaxCustomerPhone))
		return
	case services.InvalidField(err) == "CustomerName":
		metrics.OrdersRejected.WithLabelValues("invalid").Inc()
		s.step = stepName
		b.send(removeKeyboard(chatID, lang.T(s.lang, "name_too_long", models.MaxCustomerName)))
		return
	case err != nil:
		metrics.OrdersRejected.WithLabelValues("invalid").Inc()
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("order dispatch failed")
		s.resetCheckout()
		b.send(removeKeyboard(chatID, lang.T(s.lang, "order_invalid", err.Error())))
		return
	case order == nil:
		s.resetCheckout()
		b.send(removeKeyboard(chatID, lang.T(s.lang, "cart_empty")))
		return
	}
	s.resetCheckout()
	metrics.OrdersDispatched.WithLabelValues("telegram").Inc()
	log.Info().Int64("chat_id", chatID).Int("items", order.ItemCount).Str("total", order.Total.StringFixed(2)).Msg("order link sent")
}
