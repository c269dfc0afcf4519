package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalog_Langs(t *testing.T) {
	c := New("")
	assert.Equal(t, []string{"en_US", "es_ES", "fr_FR"}, c.Langs())
	assert.Equal(t, DefaultLang, c.Default())
	assert.True(t, c.Supported("fr_FR"))
	assert.False(t, c.Supported("fr-FR"))
	assert.False(t, c.Supported(""))
}

func TestCatalog_DefaultLang(t *testing.T) {
	assert.Equal(t, "fr_FR", New("fr_FR").Default())
	assert.Equal(t, DefaultLang, New("xx_YY").Default())
}

func TestCatalog_Match(t *testing.T) {
	c := New(DefaultLang)
	tests := []struct {
		header string
		want   string
	}{
		{"", "en_US"},
		{"fr-FR,fr;q=0.9,en;q=0.8", "fr_FR"},
		{"es-ES", "es_ES"},
		{"en-GB,en;q=0.9", "en_US"},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Match(tt.header))
		})
	}
}

func TestCatalog_T(t *testing.T) {
	c := New(DefaultLang)
	assert.Equal(t, MsgInvalidEmail, c.T("en_US", MsgInvalidEmail))
	assert.Equal(t, "Cela ne semble pas être une adresse e-mail.", c.T("fr_FR", MsgInvalidEmail))
	assert.Equal(t, MsgCheckInbox, c.T("xx_YY", MsgCheckInbox))
	assert.Equal(t, "S'inscrire", c.T("fr_FR", "Sign up"))
}
