package services

import (
	"reflect"
	"testing"

	"menu-bot/models"
)

func TestFilterCategories_EmptyQueryReturnsEverything(t *testing.T) {
	menu := sampleMenu()
	got := FilterCategories(menu.Categories, "", "", models.LangPT)
	if !reflect.DeepEqual(got, menu.Categories) {
		t.Fatalf("empty filter changed the catalog:\n got %+v\nwant %+v", got, menu.Categories)
	}
	got = FilterCategories(menu.Categories, "", "   ", models.LangEN)
	if CountItems(got) != CountItems(menu.Categories) {
		t.Errorf("whitespace query should match everything")
	}
}

func TestFilterCategories(t *testing.T) {
	menu := sampleMenu()
	tests := []struct {
		name     string
		category string
		query    string
		wantCats []string
		wantIDs  []string
	}{
		{"category only", "pizzas", "", []string{"pizzas"}, []string{"p20", "p2"}},
		{"unknown category", "bebidas", "", nil, nil},
		{"name match case insensitive", "", "MARGA", []string{"pizzas"}, []string{"p20"}},
		{"match in other language", "", "alho fr", []string{"entradas"}, []string{"e01"}},
		{"english name", "", "lasagne da casa en", []string{"massas"}, []string{"m44"}},
		{"description match", "", "cheese", []string{"pizzas"}, []string{"p20"}},
		{"code only match", "", "44", []string{"massas"}, []string{"m44"}},
		{"code substring across categories", "", "0", []string{"entradas", "pizzas"}, []string{"e00", "e01", "p20"}},
		{"category and query", "entradas", "alho", []string{"entradas"}, []string{"e01"}},
		{"category excludes match elsewhere", "massas", "milano", nil, nil},
		{"nothing matches", "", "sushi", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterCategories(menu.Categories, tt.category, tt.query, models.LangPT)
			var cats, ids []string
			for _, c := range got {
				cats = append(cats, c.ID)
				if len(c.Items) == 0 {
					t.Errorf("category %s returned without items", c.ID)
				}
				for _, it := range c.Items {
					ids = append(ids, it.ID)
				}
			}
			if !reflect.DeepEqual(cats, tt.wantCats) {
				t.Errorf("categories = %v, want %v", cats, tt.wantCats)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("items = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestFilterCategories_DoesNotModifyInput(t *testing.T) {
	menu := sampleMenu()
	before := menu.Clone()
	_ = FilterCategories(menu.Categories, "", "milano", models.LangPT)
	if !reflect.DeepEqual(menu, before) {
		t.Error("input catalog was modified")
	}
}

func TestFilterCategories_SeedMenu(t *testing.T) {
	menu := models.DefaultMenu()
	got := FilterCategories(menu.Categories, "", "margarita", models.LangEN)
	if CountItems(got) == 0 {
		t.Fatal("expected the seed menu to contain a margarita")
	}
	if got := FilterCategories(menu.Categories, "", "zzzz-no-match", models.LangEN); len(got) != 0 {
		t.Errorf("expected zero categories, got %d", len(got))
	}
}
