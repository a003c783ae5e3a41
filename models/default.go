package models

import (
	_ "embed"
	"encoding/json"
)

//go:embed seed/menu.json
var defaultMenuJSON []byte

// DefaultMenu returns a fresh copy of the built-in catalog used when nothing
// has been stored yet.
func DefaultMenu() MenuData {
	var m MenuData
	if err := json.Unmarshal(defaultMenuJSON, &m); err != nil {
		panic("models: bad embedded seed menu: " + err.Error())
	}
	return m
}
