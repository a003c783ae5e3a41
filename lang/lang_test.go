package lang

import (
	"strings"
	"testing"

	"menu-bot/models"
)

func TestEveryKeyTranslated(t *testing.T) {
	base := messages[models.DefaultLanguage]
	for _, l := range models.Languages {
		table, ok := messages[l]
		if !ok {
			t.Fatalf("no table for %s", l)
		}
		for key, pt := range base {
			s, ok := table[key]
			if !ok || strings.TrimSpace(s) == "" {
				t.Errorf("%s: missing %q", l, key)
				continue
			}
			if strings.Count(s, "%") != strings.Count(pt, "%") {
				t.Errorf("%s: %q has different format verbs than pt", l, key)
			}
		}
		if len(table) != len(base) {
			t.Errorf("%s has %d keys, pt has %d", l, len(table), len(base))
		}
	}
}

func TestT(t *testing.T) {
	tests := []struct {
		lang models.Language
		key  string
		args []interface{}
		want string
	}{
		{models.LangEN, "back", nil, "« Back"},
		{models.LangDE, "added", []interface{}{"Milano"}, "➕ Milano hinzugefügt"},
		{models.Language("xx"), "back", nil, "« Voltar"},
		{models.LangFR, "no_such_key", nil, "no_such_key"},
	}
	for _, tt := range tests {
		if got := T(tt.lang, tt.key, tt.args...); got != tt.want {
			t.Errorf("T(%s, %s) = %q, want %q", tt.lang, tt.key, got, tt.want)
		}
	}
}
