package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		username string
		fallback string
		want     string
	}{
		{"plain gamer tag passes through", "Shadow99", "", "Shadow99"},
		{"email masked to local part", "luisky720@gmail.com", "", "luisky720"},
		{"short local part is hidden", "ab@x.com", "", DefaultDisplayName},
		{"exactly three runes kept", "abc@x.com", "", "abc"},
		{"empty username and fallback", "", "", DefaultDisplayName},
		{"whitespace only", "   ", "", DefaultDisplayName},
		{"fallback email used when username empty", "", "foo99@bar.com", "foo99"},
		{"username wins over fallback", "Shadow99", "someone@mail.com", "Shadow99"},
		{"surrounding whitespace trimmed", "  Shadow99  ", "", "Shadow99"},
		{"at sign with empty local part", "@example.com", "", DefaultDisplayName},
		{"multibyte local part counted in runes", "日本語@example.com", "", "日本語"},
		{"tag containing at mid-string", "team@play", "", "team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeDisplayName(tt.username, tt.fallback))
		})
	}
}

func TestSafeDisplayNameNeverLeaksFullEmail(t *testing.T) {
	emails := []string{
		"someone@example.com",
		"a.b.c@sub.domain.org",
		"x@y.z",
	}
	for _, email := range emails {
		got := SafeDisplayName(email, "")
		assert.NotContains(t, got, "@", "display name must never contain a full address: %q", got)
	}
}
