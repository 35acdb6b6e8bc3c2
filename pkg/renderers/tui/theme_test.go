package tui

import (
	"testing"
	"time"

	theme "github.com/goliatone/go-theme"
)

func testSelections() []theme.Selection {
	return []theme.Selection{
		{
			Theme: "dawn",
			Manifest: &theme.Manifest{
				Name:   "dawn",
				Tokens: map[string]string{TokenInfoPrefix: "◆"},
			},
		},
		{
			Theme: "dusk",
			Manifest: &theme.Manifest{
				Name:   "dusk",
				Tokens: map[string]string{TokenInfoPrefix: "●"},
			},
		},
	}
}

func TestThemeCyclerTokens(t *testing.T) {
	cycler := NewThemeCycler(testSelections(), time.Minute)

	if got := cycler.Token(TokenInfoPrefix); got != "◆" {
		t.Fatalf("expected first selection token, got %q", got)
	}
	cycler.advance()
	if got := cycler.Token(TokenInfoPrefix); got != "●" {
		t.Fatalf("expected second selection token, got %q", got)
	}
	cycler.advance()
	if got := cycler.Token(TokenInfoPrefix); got != "◆" {
		t.Fatalf("expected wrap-around, got %q", got)
	}
}

func TestThemeCyclerNilSafe(t *testing.T) {
	var cycler *ThemeCycler
	if got := cycler.Token(TokenInfoPrefix); got != "" {
		t.Fatalf("nil cycler must resolve empty tokens, got %q", got)
	}
	if sel := cycler.Current(); sel != nil {
		t.Fatalf("nil cycler must have no selection")
	}
}

func TestThemeCyclerMissingToken(t *testing.T) {
	cycler := NewThemeCycler(testSelections(), time.Minute)
	if got := cycler.Token(TokenErrorPrefix); got != "" {
		t.Fatalf("missing tokens must resolve empty, got %q", got)
	}
}
