package translate

import (
	"strings"
	"testing"
)

func TestLanguageName(t *testing.T) {
	if got := languageName("fr"); got != "français" {
		t.Fatalf("languageName(fr) = %q", got)
	}
	// незнакомый код остаётся как есть
	if got := languageName("sw"); got != "sw" {
		t.Fatalf("languageName(sw) = %q", got)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("salam", "ar", "fr")

	for _, want := range []string{
		"arabe dialectal marocain (darija)",
		"français",
		`"salam"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
