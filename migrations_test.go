package main

import (
	"strings"
	"testing"
)

func TestMigrationsEmbedded(t *testing.T) {
	names, err := migrationNames()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) == 0 {
		t.Fatal("no migrations embedded")
	}
	sql, err := migrationsFS.ReadFile(names[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(sql), "menu_state") {
		t.Errorf("%s does not create menu_state", names[0])
	}
}
