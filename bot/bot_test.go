package bot

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"menu-bot/config"
	"menu-bot/models"
	"menu-bot/services"
	"menu-bot/storage"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last() tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

func chattableText(c tgbotapi.Chattable) string {
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		return m.Text
	case tgbotapi.EditMessageTextConfig:
		return m.Text
	}
	return ""
}

func (f *fakeSender) lastText() string { return chattableText(f.last()) }

func (f *fakeSender) lastAnswer() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if cb, ok := f.requests[i].(tgbotapi.CallbackConfig); ok {
			return cb.Text
		}
	}
	return ""
}

func testConfig() *config.Config {
	return &config.Config{
		Telegram: config.TelegramConfig{AdminID: 7},
		Order: config.OrderConfig{
			RestaurantName: "Pizzeria Fenicia",
			Host:           "wa.me",
			FallbackPhone:  "351281325175",
			Currency:       "€",
			RequireName:    true,
		},
		Share: config.ShareConfig{PublicURL: "https://menu.example.com"},
	}
}

func testStore(t *testing.T) (*services.CatalogStore, *storage.Memory) {
	t.Helper()
	return openStore(t, storage.NewMemory())
}

func openStore(t *testing.T, mem *storage.Memory) (*services.CatalogStore, *storage.Memory) {
	t.Helper()
	store, err := services.OpenCatalog(context.Background(), mem, models.DefaultMenu())
	if err != nil {
		t.Fatalf("OpenCatalog: %v", err)
	}
	return store, mem
}

func textMsg(userID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID, LanguageCode: "pt"},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
	}
}

func commandMsg(userID int64, text string) *tgbotapi.Message {
	msg := textMsg(userID, text)
	cmd, _, _ := strings.Cut(text, " ")
	msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	return msg
}

func callback(userID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: userID}},
		Data:    data,
	}
}

func orderURL(t *testing.T, c tgbotapi.Chattable) string {
	t.Helper()
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("last sent is %T, want MessageConfig", c)
	}
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok || len(kb.InlineKeyboard) == 0 || kb.InlineKeyboard[0][0].URL == nil {
		t.Fatalf("no URL button on %q", msg.Text)
	}
	return *kb.InlineKeyboard[0][0].URL
}

func TestParseCallback(t *testing.T) {
	tests := []struct{ data, verb, arg string }{
		{"add:p20", "add", "p20"},
		{"cat:", "cat", ""},
		{"menu", "menu", ""},
		{"adm:del:x", "adm", "del:x"},
	}
	for _, tt := range tests {
		verb, arg := parseCallback(tt.data)
		if verb != tt.verb || arg != tt.arg {
			t.Errorf("parseCallback(%q) = %q, %q", tt.data, verb, arg)
		}
	}
}

func TestCategoryKeyboard(t *testing.T) {
	cats := models.DefaultMenu().Categories
	cart := services.NewCart()
	kb := categoryKeyboard(cats, cart, models.LangEN, "€")
	wantRows := (len(cats)+1)/2 + 1
	if len(kb.InlineKeyboard) != wantRows {
		t.Fatalf("rows = %d, want %d", len(kb.InlineKeyboard), wantRows)
	}
	if got := *kb.InlineKeyboard[0][0].CallbackData; got != "cat:"+cats[0].ID {
		t.Errorf("first button data = %q", got)
	}
	cart.AddItem(cats[0].Items[0])
	kb = categoryKeyboard(cats, cart, models.LangEN, "€")
	last := kb.InlineKeyboard[len(kb.InlineKeyboard)-1][0]
	if *last.CallbackData != "cart" || !strings.Contains(last.Text, "(1)") {
		t.Errorf("cart button = %+v", last)
	}
}

func TestCartTextAndKeyboard(t *testing.T) {
	store, _ := testStore(t)
	margarita, ok := store.Item("p20")
	if !ok {
		t.Fatal("seed menu has no p20")
	}
	cart := services.NewCart()
	if got := cartText(cart, models.LangEN, "€"); got != "🛒 Your cart is empty." {
		t.Errorf("empty cart text = %q", got)
	}
	cart.AddItem(margarita)
	cart.AddItem(margarita)
	text := cartText(cart, models.LangPT, "€")
	if !strings.Contains(text, "2x #20 Margarita · 17.50€") || !strings.HasSuffix(text, "Total: 17.50€") {
		t.Errorf("cart text = %q", text)
	}
	kb := cartKeyboard(cart, models.LangPT)
	if len(kb.InlineKeyboard) != 3 {
		t.Fatalf("rows = %d, want item + actions + back", len(kb.InlineKeyboard))
	}
	if got := *kb.InlineKeyboard[0][0].CallbackData; got != "dec:p20" {
		t.Errorf("decrement data = %q", got)
	}
}

func TestContactsText(t *testing.T) {
	if got := contactsText(nil, "", models.LangEN); got != "No contacts available." {
		t.Errorf("got %q", got)
	}
	got := contactsText([]models.Contact{{Label: "Tel", Value: "1"}}, "Rua 1", models.LangEN)
	if got != "📞 Contacts:\n• Tel: 1\n\n📍 Rua 1" {
		t.Errorf("got %q", got)
	}
}

func TestBot_CheckoutFlow(t *testing.T) {
	ctx := context.Background()
	api := &fakeSender{}
	store, _ := testStore(t)
	b := newBot(api, testConfig(), store)
	const user = 42

	b.handleCallback(ctx, callback(user, "add:p20"))
	b.handleCallback(ctx, callback(user, "add:p20"))
	if !strings.Contains(api.lastAnswer(), "Margarita") {
		t.Errorf("add toast = %q", api.lastAnswer())
	}
	b.handleCallback(ctx, callback(user, "checkout"))
	if api.lastText() != "👤 Qual é o seu nome?" {
		t.Fatalf("expected name prompt, got %q", api.lastText())
	}

	b.handleMessage(ctx, textMsg(user, "-"))
	if api.lastText() != "O nome é obrigatório para enviar o pedido." {
		t.Fatalf("expected name required, got %q", api.lastText())
	}

	b.handleMessage(ctx, textMsg(user, "Ana"))
	if !strings.HasPrefix(api.lastText(), "📞") {
		t.Fatalf("expected phone prompt, got %q", api.lastText())
	}

	contact := textMsg(user, "")
	contact.Contact = &tgbotapi.Contact{PhoneNumber: "+351912345678"}
	b.handleMessage(ctx, contact)

	link := orderURL(t, api.last())
	u, err := url.Parse(link)
	if err != nil {
		t.Fatal(err)
	}
	if u.Host != "wa.me" || u.Path != "/351281325175" {
		t.Errorf("link = %s", link)
	}
	text := u.Query().Get("text")
	for _, want := range []string{"Ana", "+351912345678", "2x #20 Margarita (17.50€)", "*Total a pagar: 17.50€*"} {
		if !strings.Contains(text, want) {
			t.Errorf("order text missing %q:\n%s", want, text)
		}
	}

	s := b.sessions.get(context.Background(), user, "")
	if s.step != stepNone || s.cart.IsEmpty() {
		t.Errorf("after checkout: step=%v empty=%v", s.step, s.cart.IsEmpty())
	}
}

func TestBot_CheckoutRejectsLongAnswersAtTheirStep(t *testing.T) {
	ctx := context.Background()
	api := &fakeSender{}
	store, _ := testStore(t)
	b := newBot(api, testConfig(), store)
	const user = 43

	b.handleCallback(ctx, callback(user, "add:p20"))
	b.handleCallback(ctx, callback(user, "checkout"))

	b.handleMessage(ctx, textMsg(user, strings.Repeat("a", models.MaxCustomerName+1)))
	if api.lastText() != "O nome é demasiado longo (máx. 80 caracteres)." {
		t.Fatalf("long name reply = %q", api.lastText())
	}
	s := b.sessions.get(ctx, user, "")
	if s.step != stepName {
		t.Fatalf("step after long name = %v, want name step", s.step)
	}

	b.handleMessage(ctx, textMsg(user, "Ana"))
	b.handleMessage(ctx, textMsg(user, strings.Repeat("9", models.MaxCustomerPhone+1)))
	if api.lastText() != "O contacto é demasiado longo (máx. 32 caracteres)." {
		t.Fatalf("long phone reply = %q", api.lastText())
	}
	if s.step != stepPhone || s.name != "Ana" || s.cart.IsEmpty() {
		t.Fatalf("after long phone: step=%v name=%q empty=%v", s.step, s.name, s.cart.IsEmpty())
	}

	b.handleMessage(ctx, textMsg(user, "912 345 678"))
	if !strings.Contains(orderURL(t, api.last()), "wa.me/351281325175") {
		t.Error("expected the order link after a valid phone")
	}
}

func TestBot_CheckoutEmptyCart(t *testing.T) {
	api := &fakeSender{}
	store, _ := testStore(t)
	b := newBot(api, testConfig(), store)
	b.handleCallback(context.Background(), callback(1, "checkout"))
	if api.lastText() != "🛒 O seu carrinho está vazio." {
		t.Errorf("got %q", api.lastText())
	}
}

func TestBot_CartDropsDeletedItems(t *testing.T) {
	ctx := context.Background()
	api := &fakeSender{}
	store, _ := testStore(t)
	b := newBot(api, testConfig(), store)

	b.handleCallback(ctx, callback(1, "add:p20"))
	b.handleCallback(ctx, callback(1, "add:m44"))
	if err := store.RemoveItem(ctx, "pizzas", "p20"); err != nil {
		t.Fatal(err)
	}
	b.handleMessage(ctx, commandMsg(1, "/cart"))
	text := api.lastText()
	if strings.Contains(text, "#20 ") || !strings.Contains(text, "#44") {
		t.Errorf("cart text = %q", text)
	}
}

func TestBot_QuantityButtons(t *testing.T) {
	ctx := context.Background()
	api := &fakeSender{}
	store, _ := testStore(t)
	b := newBot(api, testConfig(), store)

	b.handleCallback(ctx, callback(1, "add:m44"))
	b.handleCallback(ctx, callback(1, "dec:m44"))
	s := b.sessions.get(context.Background(), 1, "")
	if q := s.cart.Quantity("m44"); q != 1 {
		t.Errorf("after decrement quantity = %d, want 1", q)
	}
	b.handleCallback(ctx, callback(1, "inc:m44"))
	b.handleCallback(ctx, callback(1, "inc:m44"))
	if q := s.cart.Quantity("m44"); q != 3 {
		t.Errorf("quantity = %d, want 3", q)
	}
	b.handleCallback(ctx, callback(1, "del:m44"))
	if !s.cart.IsEmpty() {
		t.Error("del should remove the entry")
	}
}

func TestBot_SearchAndLanguage(t *testing.T) {
	ctx := context.Background()
	api := &fakeSender{}
	store, _ := testStore(t)
	b := newBot(api, testConfig(), store)

	b.handleCallback(ctx, callback(3, "lang:en"))
	if api.lastAnswer() != "✅ Language: English" {
		t.Errorf("answer = %q", api.lastAnswer())
	}
	b.handleMessage(ctx, commandMsg(3, "/search margarita"))
	if !strings.HasPrefix(api.lastText(), "🔎 Results for «margarita»") {
		t.Errorf("got %q", api.lastText())
	}
	b.handleMessage(ctx, textMsg(3, "zzzz"))
	if api.lastText() != "No dishes found for «zzzz»." {
		t.Errorf("got %q", api.lastText())
	}
	b.handleMessage(ctx, commandMsg(3, "/search"))
	if !strings.HasPrefix(api.lastText(), "Type /search") {
		t.Errorf("got %q", api.lastText())
	}
}

func TestBot_Share(t *testing.T) {
	api := &fakeSender{}
	store, _ := testStore(t)
	cfg := testConfig()
	b := newBot(api, cfg, store)
	b.handleMessage(context.Background(), commandMsg(5, "/share"))
	if !strings.Contains(api.lastText(), "https://menu.example.com") {
		t.Errorf("got %q", api.lastText())
	}

	cfg.Share.PublicURL = ""
	b = newBot(api, cfg, store)
	b.handleMessage(context.Background(), commandMsg(5, "/share"))
	if api.lastText() != "A partilha não está disponível." {
		t.Errorf("got %q", api.lastText())
	}
}

type memPrefs struct {
	mu   sync.Mutex
	m    map[int64]models.Language
	sets int
}

func (p *memPrefs) GetLanguage(_ context.Context, id int64) (models.Language, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.m[id]
	return l, ok, nil
}

func (p *memPrefs) SetLanguage(_ context.Context, id int64, l models.Language) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[id] = l
	p.sets++
	return nil
}

func TestBot_LanguagePrefs(t *testing.T) {
	store, _ := testStore(t)
	prefs := &memPrefs{m: map[int64]models.Language{5: models.LangDE}}
	b := newBot(&fakeSender{}, testConfig(), store).WithLanguagePrefs(prefs)
	ctx := context.Background()

	// saved language wins over the Telegram client language
	if got := b.sessions.get(ctx, 5, "pt").lang; got != models.LangDE {
		t.Errorf("restored lang = %q, want de", got)
	}

	b.handleCallback(ctx, callback(6, "lang:fr"))
	if prefs.m[6] != models.LangFR || prefs.sets != 1 {
		t.Fatalf("prefs after lang:fr = %v (sets %d)", prefs.m, prefs.sets)
	}

	// a fresh bot sharing the prefs picks the choice up
	b2 := newBot(&fakeSender{}, testConfig(), store).WithLanguagePrefs(prefs)
	if got := b2.sessions.get(ctx, 6, "en").lang; got != models.LangFR {
		t.Errorf("lang after restart = %q, want fr", got)
	}

	b.handleCallback(ctx, callback(6, "lang:xx"))
	if prefs.sets != 1 {
		t.Errorf("invalid language was saved")
	}
}
