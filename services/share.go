package services

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ShareLinks are the fallbacks offered when the host has no native share sheet.
type ShareLinks struct {
	PageURL  string `json:"page_url"` // what "copy link" copies
	WhatsApp string `json:"whatsapp"`
	Facebook string `json:"facebook"`
}

// BuildShareLinks returns share links for pageURL, titled with restaurantName.
func BuildShareLinks(pageURL, restaurantName string) ShareLinks {
	return ShareLinks{
		PageURL:  pageURL,
		WhatsApp: "https://wa.me/?text=" + EscapeText(restaurantName+": "+pageURL),
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(pageURL),
	}
}

// MapsURL links the address to a map search; empty address gives "".
func MapsURL(address string) string {
	address = strings.TrimSpace(address)
	if address == "" {
		return ""
	}
	return "https://www.google.com/maps/search/?api=1&query=" + EscapeText(address)
}

// NewItemID returns an id for an admin-created item or contact.
func NewItemID() string {
	return uuid.NewString()
}
