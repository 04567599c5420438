package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide_Unlocked(t *testing.T) {
	v := Decide(true, Options{LockTitle: "ignored"}, "content")
	assert.Equal(t, View{Content: "content"}, v)
	assert.Equal(t, "content", Render(v))
}

func TestDecide_LockedDefaults(t *testing.T) {
	v := Decide(false, Options{}, "content")

	assert.True(t, v.Locked)
	assert.Equal(t, DefaultLockTitle, v.Title)
	assert.Equal(t, TierMessage(1), v.Message)
	assert.True(t, v.ShowPreview)
	assert.Equal(t, "content", v.Content)
}

func TestDecide_Overrides(t *testing.T) {
	v := Decide(false, Options{
		RequiredTier:      3,
		LockTitle:         "Gesperrt",
		ShowLockedPreview: Preview(false),
	}, "content")

	assert.Equal(t, "Gesperrt", v.Title)
	assert.Contains(t, v.Message, "Stufe 3 oder höher")
	assert.False(t, v.ShowPreview)

	v = Decide(false, Options{LockMessage: "eigene Nachricht"}, "")
	assert.Equal(t, "eigene Nachricht", v.Message)
}

func TestTierMessage(t *testing.T) {
	assert.Equal(t, "Diese Funktion erfordert ein aktives Abonnement. Bitte kontaktieren Sie uns, um ein Abonnement abzuschließen.", TierMessage(1))
	assert.Equal(t, "Diese Funktion ist nur mit einem Premium-Abonnement (Stufe 2 oder höher) verfügbar. Bitte kontaktieren Sie uns, um Ihr Abonnement zu erweitern.", TierMessage(2))
}

func TestRender_Locked(t *testing.T) {
	out := Render(Decide(false, Options{}, "Gesamt: 4"))
	assert.Contains(t, out, DefaultLockTitle)
	assert.Contains(t, out, "Gesamt: 4")

	out = Render(Decide(false, Options{ShowLockedPreview: Preview(false)}, "Gesamt: 4"))
	assert.Contains(t, out, DefaultLockTitle)
	assert.NotContains(t, out, "Gesamt: 4")
}
