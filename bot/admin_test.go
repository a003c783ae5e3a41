package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"menu-bot/models"
	"menu-bot/services"
	"menu-bot/storage"
)

const adminUser = 7

func newTestAdmin(t *testing.T) (*AdminBot, *fakeSender, *services.CatalogStore, *storage.Memory) {
	t.Helper()
	api := &fakeSender{}
	store, mem := testStore(t)
	return newAdminBot(api, testConfig(), store), api, store, mem
}

func TestAdmin_RejectsOtherUsers(t *testing.T) {
	a, api, store, mem := newTestAdmin(t)
	a.handleMessage(context.Background(), textMsg(8, "hello"))
	if api.lastText() != "🔒 This bot is for the restaurant admin only." {
		t.Errorf("got %q", api.lastText())
	}
	a.handleCallback(context.Background(), callback(8, "adm:delok:p20"))
	if _, ok := store.Item("p20"); !ok || mem.Saves() != 0 {
		t.Error("non-admin callback changed the menu")
	}
}

func TestAdmin_CreateItem(t *testing.T) {
	ctx := context.Background()
	a, api, store, mem := newTestAdmin(t)

	a.handleCallback(ctx, callback(adminUser, "adm:new:pizzas"))
	if !strings.Contains(api.lastText(), "Send the item code") {
		t.Fatalf("got %q", api.lastText())
	}
	for _, answer := range []string{"99", "Calzone", "Calzone", "Calzone", "Calzone", "12.00", "-", "-"} {
		a.handleMessage(ctx, textMsg(adminUser, answer))
	}
	c, _ := store.Category("pizzas")
	last := c.Items[len(c.Items)-1]
	if last.Code != "99" || last.Name.PT != "Calzone" {
		t.Fatalf("last item = %+v", last)
	}
	if mem.Saves() != 1 {
		t.Errorf("saves = %d", mem.Saves())
	}
	if a.getState(adminUser) != nil {
		t.Error("state should be cleared")
	}
}

func TestAdmin_InvalidAnswerRepeatsPrompt(t *testing.T) {
	ctx := context.Background()
	a, api, _, _ := newTestAdmin(t)
	a.handleCallback(ctx, callback(adminUser, "adm:new:pizzas"))
	a.handleMessage(ctx, textMsg(adminUser, "1"))
	for i := 0; i < 4; i++ {
		a.handleMessage(ctx, textMsg(adminUser, "X"))
	}
	a.handleMessage(ctx, textMsg(adminUser, "free"))
	if !strings.HasPrefix(api.lastText(), "❌ price must be a number") {
		t.Errorf("got %q", api.lastText())
	}
	if st := a.getState(adminUser); st == nil || st.draft.field != fieldPrice {
		t.Error("draft should stay on the price")
	}
}

func TestAdmin_EditPhotoAndDelete(t *testing.T) {
	ctx := context.Background()
	a, api, store, _ := newTestAdmin(t)

	a.handleCallback(ctx, callback(adminUser, "adm:edit:m44"))
	for _, answer := range []string{".", ".", ".", ".", ".", "11", "-"} {
		a.handleMessage(ctx, textMsg(adminUser, answer))
	}
	photo := textMsg(adminUser, "")
	photo.Photo = []tgbotapi.PhotoSize{{FileID: "small"}, {FileID: "large"}}
	a.handleMessage(ctx, photo)

	it, ok := store.Item("m44")
	if !ok || it.Image != "large" || it.Price.StringFixed(2) != "11.00" || it.Name.PT != "Lasagne da Casa" {
		t.Fatalf("item = %+v", it)
	}

	a.handleCallback(ctx, callback(adminUser, "adm:del:m44"))
	if _, ok := store.Item("m44"); !ok {
		t.Fatal("item deleted before confirmation")
	}
	if !strings.HasPrefix(api.lastText(), "🗑 Delete #44") {
		t.Errorf("confirm prompt = %q", api.lastText())
	}
	a.handleCallback(ctx, callback(adminUser, "adm:delok:m44"))
	if _, ok := store.Item("m44"); ok {
		t.Error("item not deleted after confirmation")
	}
}

func TestAdmin_MoveCategoryContactsAddress(t *testing.T) {
	ctx := context.Background()
	a, _, store, _ := newTestAdmin(t)

	a.handleCallback(ctx, callback(adminUser, "adm:down:entradas"))
	if got := store.Categories()[1].ID; got != "entradas" {
		t.Errorf("second category = %q", got)
	}
	a.handleCallback(ctx, callback(adminUser, "adm:up:entradas"))
	if got := store.Categories()[0].ID; got != "entradas" {
		t.Errorf("first category = %q", got)
	}

	a.handleCallback(ctx, callback(adminUser, "adm:cadd"))
	a.handleMessage(ctx, textMsg(adminUser, "Telemóvel"))
	a.handleMessage(ctx, textMsg(adminUser, "+351 912 000 000"))
	contacts := store.Contacts()
	if len(contacts) != 2 || contacts[1].Label != "Telemóvel" || contacts[1].ID == "" {
		t.Fatalf("contacts = %+v", contacts)
	}

	a.handleCallback(ctx, callback(adminUser, "adm:cdel:phone1"))
	if got := store.Contacts(); len(got) != 1 || got[0].Label != "Telemóvel" {
		t.Errorf("contacts = %+v", got)
	}

	a.handleCallback(ctx, callback(adminUser, "adm:address"))
	a.handleMessage(ctx, textMsg(adminUser, "  Rua Nova 1  "))
	if store.Address() != "Rua Nova 1" {
		t.Errorf("address = %q", store.Address())
	}
}

func TestAdmin_SaveFailureWarns(t *testing.T) {
	api := &fakeSender{}
	mem := storage.NewMemory()
	mem.SaveErr = errors.New("disk full")
	store, _ := openStore(t, mem)
	a := newAdminBot(api, testConfig(), store)

	a.handleCallback(context.Background(), callback(adminUser, "adm:address"))
	a.handleMessage(context.Background(), textMsg(adminUser, "Rua 2"))

	var warned bool
	for _, c := range api.sent {
		if strings.HasPrefix(chattableText(c), "⚠️ Address updated") && strings.Contains(chattableText(c), "disk full") {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a save warning")
	}
	if store.Address() != "Rua 2" {
		t.Error("change should stay in memory")
	}
}

func TestAdminOrderKeyboard(t *testing.T) {
	cats := models.DefaultMenu().Categories
	kb := adminOrderKeyboard(cats)
	if len(kb.InlineKeyboard) != len(cats)+1 {
		t.Fatalf("rows = %d", len(kb.InlineKeyboard))
	}
	if len(kb.InlineKeyboard[0]) != 2 || *kb.InlineKeyboard[0][1].CallbackData != "adm:down:"+cats[0].ID {
		t.Errorf("first row = %+v", kb.InlineKeyboard[0])
	}
	lastRow := kb.InlineKeyboard[len(cats)-1]
	if len(lastRow) != 2 || *lastRow[1].CallbackData != "adm:up:"+cats[len(cats)-1].ID {
		t.Errorf("last row = %+v", lastRow)
	}
}
