package services

import (
	"github.com/shopspring/decimal"

	"menu-bot/models"
)

func loc(s string) models.Localized {
	return models.Localized{PT: s, EN: s + " en", FR: s + " fr", DE: s + " de"}
}

func item(id, code, name, price string) models.MenuItem {
	return models.MenuItem{ID: id, Code: code, Name: loc(name), Price: decimal.RequireFromString(price)}
}

func sampleMenu() models.MenuData {
	desc := models.Localized{PT: "Tomate, queijo", EN: "Tomato and cheese", FR: "Tomate et fromage", DE: "Tomaten und käse"}
	margarita := item("p20", "20", "Margarita", "8.75")
	margarita.Description = &desc
	return models.MenuData{
		Categories: []models.MenuCategory{
			{ID: "entradas", Title: loc("Entradas"), Items: []models.MenuItem{
				item("e00", "00", "Pão", "1.20"),
				item("e01", "01", "Pão com Alho", "3.00"),
			}},
			{ID: "pizzas", Title: loc("Pizzas"), Items: []models.MenuItem{
				margarita,
				item("p2", "2", "Milano", "8.75"),
			}},
			{ID: "massas", Title: loc("Massas"), Items: []models.MenuItem{
				item("m44", "44", "Lasagne da Casa", "10.00"),
			}},
		},
		Contacts: []models.Contact{{ID: "phone1", Label: "Telefone", Value: "+351 281 325 175"}},
		Address:  "Largo da Caracolinha n.8, Tavira 8800-310",
	}
}
