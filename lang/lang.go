// Package lang holds the customer bot's UI strings.
package lang

import (
	"fmt"

	"menu-bot/models"
)

var messages = map[models.Language]map[string]string{
	models.LangPT: {
		"welcome":            "🍕 Bem-vindo à %s!\n\nEscolha uma categoria, pesquise com /search ou veja o carrinho com /cart.",
		"choose_lang":        "Escolha o idioma / Choose your language:",
		"lang_set":           "✅ Idioma: Português",
		"categories":         "📋 Categorias:",
		"all_categories":     "🍽 Todos",
		"category_empty":     "Nenhum prato nesta categoria.",
		"items_header":       "%s\n\nToque num prato para o adicionar ao carrinho.",
		"added":              "➕ %s adicionado",
		"item_gone":          "Este prato já não está no menu.",
		"cart_btn":           "🛒 Carrinho (%d) · %s",
		"cart_empty":         "🛒 O seu carrinho está vazio.",
		"cart_header":        "🛒 O seu pedido:\n\n",
		"cart_total":         "\nTotal: %s",
		"checkout_btn":       "✅ Finalizar pedido",
		"clear_btn":          "🗑 Esvaziar",
		"cart_cleared":       "Carrinho esvaziado.",
		"back":               "« Voltar",
		"search_usage":       "Escreva /search seguido do nome ou número do prato, ex.: /search margarita",
		"search_results":     "🔎 Resultados para «%s» (%d):",
		"search_none":        "Nenhum prato encontrado para «%s».",
		"ask_name":           "👤 Qual é o seu nome?",
		"ask_name_optional":  "👤 Qual é o seu nome? (envie - para saltar)",
		"name_required":      "O nome é obrigatório para enviar o pedido.",
		"name_too_long":      "O nome é demasiado longo (máx. %d caracteres).",
		"phone_too_long":     "O contacto é demasiado longo (máx. %d caracteres).",
		"ask_phone":          "📞 Qual é o seu contacto? Partilhe o número ou envie - para saltar.",
		"share_phone_btn":    "📱 Partilhar número",
		"order_ready":        "✅ Pedido pronto! Toque no botão para o enviar pelo WhatsApp.\n\nTotal: %s",
		"open_whatsapp":      "📲 Enviar pelo WhatsApp",
		"order_invalid":      "Não foi possível preparar o pedido: %s",
		"checkout_cancelled": "Pedido cancelado. O carrinho mantém-se.",
		"share_header":       "📤 Partilhe o nosso menu:",
		"share_unavailable":  "A partilha não está disponível.",
		"copy_link":          "🔗 Link: %s",
		"contacts_header":    "📞 Contactos:",
		"address":            "📍 %s",
		"open_maps":          "🗺 Ver no mapa",
		"no_contacts":        "Sem contactos disponíveis.",
	},
	models.LangEN: {
		"welcome":            "🍕 Welcome to %s!\n\nPick a category, search with /search or see your cart with /cart.",
		"choose_lang":        "Escolha o idioma / Choose your language:",
		"lang_set":           "✅ Language: English",
		"categories":         "📋 Categories:",
		"all_categories":     "🍽 All",
		"category_empty":     "No dishes in this category.",
		"items_header":       "%s\n\nTap a dish to add it to your cart.",
		"added":              "➕ %s added",
		"item_gone":          "This dish is no longer on the menu.",
		"cart_btn":           "🛒 Cart (%d) · %s",
		"cart_empty":         "🛒 Your cart is empty.",
		"cart_header":        "🛒 Your order:\n\n",
		"cart_total":         "\nTotal: %s",
		"checkout_btn":       "✅ Checkout",
		"clear_btn":          "🗑 Empty cart",
		"cart_cleared":       "Cart emptied.",
		"back":               "« Back",
		"search_usage":       "Type /search followed by a dish name or number, e.g. /search margarita",
		"search_results":     "🔎 Results for «%s» (%d):",
		"search_none":        "No dishes found for «%s».",
		"ask_name":           "👤 What is your name?",
		"ask_name_optional":  "👤 What is your name? (send - to skip)",
		"name_required":      "A name is required to send the order.",
		"name_too_long":      "The name is too long (max %d characters).",
		"phone_too_long":     "The contact is too long (max %d characters).",
		"ask_phone":          "📞 How can we reach you? Share your number or send - to skip.",
		"share_phone_btn":    "📱 Share number",
		"order_ready":        "✅ Order ready! Tap the button to send it via WhatsApp.\n\nTotal: %s",
		"open_whatsapp":      "📲 Send via WhatsApp",
		"order_invalid":      "Could not prepare the order: %s",
		"checkout_cancelled": "Checkout cancelled. Your cart is kept.",
		"share_header":       "📤 Share our menu:",
		"share_unavailable":  "Sharing is not available.",
		"copy_link":          "🔗 Link: %s",
		"contacts_header":    "📞 Contacts:",
		"address":            "📍 %s",
		"open_maps":          "🗺 Open map",
		"no_contacts":        "No contacts available.",
	},
	models.LangFR: {
		"welcome":            "🍕 Bienvenue chez %s !\n\nChoisissez une catégorie, cherchez avec /search ou voyez le panier avec /cart.",
		"choose_lang":        "Escolha o idioma / Choose your language:",
		"lang_set":           "✅ Langue : Français",
		"categories":         "📋 Catégories :",
		"all_categories":     "🍽 Tout",
		"category_empty":     "Aucun plat dans cette catégorie.",
		"items_header":       "%s\n\nTouchez un plat pour l'ajouter au panier.",
		"added":              "➕ %s ajouté",
		"item_gone":          "Ce plat n'est plus au menu.",
		"cart_btn":           "🛒 Panier (%d) · %s",
		"cart_empty":         "🛒 Votre panier est vide.",
		"cart_header":        "🛒 Votre commande :\n\n",
		"cart_total":         "\nTotal : %s",
		"checkout_btn":       "✅ Commander",
		"clear_btn":          "🗑 Vider",
		"cart_cleared":       "Panier vidé.",
		"back":               "« Retour",
		"search_usage":       "Tapez /search suivi du nom ou du numéro du plat, ex. : /search margarita",
		"search_results":     "🔎 Résultats pour «%s» (%d) :",
		"search_none":        "Aucun plat trouvé pour «%s».",
		"ask_name":           "👤 Quel est votre nom ?",
		"ask_name_optional":  "👤 Quel est votre nom ? (envoyez - pour passer)",
		"name_required":      "Le nom est obligatoire pour envoyer la commande.",
		"name_too_long":      "Le nom est trop long (%d caractères max.).",
		"phone_too_long":     "Le contact est trop long (%d caractères max.).",
		"ask_phone":          "📞 Comment vous joindre ? Partagez votre numéro ou envoyez - pour passer.",
		"share_phone_btn":    "📱 Partager le numéro",
		"order_ready":        "✅ Commande prête ! Touchez le bouton pour l'envoyer par WhatsApp.\n\nTotal : %s",
		"open_whatsapp":      "📲 Envoyer par WhatsApp",
		"order_invalid":      "Impossible de préparer la commande : %s",
		"checkout_cancelled": "Commande annulée. Le panier est conservé.",
		"share_header":       "📤 Partagez notre menu :",
		"share_unavailable":  "Le partage n'est pas disponible.",
		"copy_link":          "🔗 Lien : %s",
		"contacts_header":    "📞 Contacts :",
		"address":            "📍 %s",
		"open_maps":          "🗺 Voir sur la carte",
		"no_contacts":        "Aucun contact disponible.",
	},
	models.LangDE: {
		"welcome":            "🍕 Willkommen bei %s!\n\nWählen Sie eine Kategorie, suchen Sie mit /search oder öffnen Sie den Warenkorb mit /cart.",
		"choose_lang":        "Escolha o idioma / Choose your language:",
		"lang_set":           "✅ Sprache: Deutsch",
		"categories":         "📋 Kategorien:",
		"all_categories":     "🍽 Alle",
		"category_empty":     "Keine Gerichte in dieser Kategorie.",
		"items_header":       "%s\n\nTippen Sie auf ein Gericht, um es in den Warenkorb zu legen.",
		"added":              "➕ %s hinzugefügt",
		"item_gone":          "Dieses Gericht ist nicht mehr auf der Karte.",
		"cart_btn":           "🛒 Warenkorb (%d) · %s",
		"cart_empty":         "🛒 Ihr Warenkorb ist leer.",
		"cart_header":        "🛒 Ihre Bestellung:\n\n",
		"cart_total":         "\nGesamt: %s",
		"checkout_btn":       "✅ Bestellen",
		"clear_btn":          "🗑 Leeren",
		"cart_cleared":       "Warenkorb geleert.",
		"back":               "« Zurück",
		"search_usage":       "Schreiben Sie /search und den Namen oder die Nummer des Gerichts, z. B. /search margarita",
		"search_results":     "🔎 Ergebnisse für «%s» (%d):",
		"search_none":        "Keine Gerichte für «%s» gefunden.",
		"ask_name":           "👤 Wie ist Ihr Name?",
		"ask_name_optional":  "👤 Wie ist Ihr Name? (- zum Überspringen)",
		"name_required":      "Für die Bestellung wird ein Name benötigt.",
		"name_too_long":      "Der Name ist zu lang (max. %d Zeichen).",
		"phone_too_long":     "Der Kontakt ist zu lang (max. %d Zeichen).",
		"ask_phone":          "📞 Wie erreichen wir Sie? Teilen Sie Ihre Nummer oder senden Sie - zum Überspringen.",
		"share_phone_btn":    "📱 Nummer teilen",
		"order_ready":        "✅ Bestellung bereit! Tippen Sie auf die Schaltfläche, um sie per WhatsApp zu senden.\n\nGesamt: %s",
		"open_whatsapp":      "📲 Per WhatsApp senden",
		"order_invalid":      "Die Bestellung konnte nicht vorbereitet werden: %s",
		"checkout_cancelled": "Bestellung abgebrochen. Der Warenkorb bleibt erhalten.",
		"share_header":       "📤 Teilen Sie unsere Speisekarte:",
		"share_unavailable":  "Teilen ist nicht verfügbar.",
		"copy_link":          "🔗 Link: %s",
		"contacts_header":    "📞 Kontakt:",
		"address":            "📍 %s",
		"open_maps":          "🗺 Auf der Karte zeigen",
		"no_contacts":        "Keine Kontakte verfügbar.",
	},
}

// T returns the string for key in l, falling back to Portuguese and then to
// the key itself. args are applied with fmt.Sprintf.
func T(l models.Language, key string, args ...interface{}) string {
	s, ok := messages[l][key]
	if !ok {
		s, ok = messages[models.DefaultLanguage][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(s, args...)
	}
	return s
}
