// Package gate decides whether protected content is shown or replaced by a
// locked notice. Decide is pure: it never looks up the entitlement itself.
package gate

import "fmt"

const (
	DefaultLockTitle    = "Premium-Funktion"
	DefaultRequiredTier = 1
)

// Options configure a locked view. The zero value uses the defaults.
type Options struct {
	RequiredTier      int
	LockTitle         string
	LockMessage       string
	ShowLockedPreview *bool
}

// View is the outcome of Decide. Content is always the caller's content;
// Locked tells whether it must be shown as a suppressed preview, if at all.
type View struct {
	Locked      bool
	Title       string
	Message     string
	Content     string
	ShowPreview bool
}

// Preview returns p as a ShowLockedPreview option.
func Preview(p bool) *bool { return &p }

// TierMessage is the default lock message for a required tier.
func TierMessage(tier int) string {
	if tier <= 1 {
		return "Diese Funktion erfordert ein aktives Abonnement. Bitte kontaktieren Sie uns, um ein Abonnement abzuschließen."
	}
	return fmt.Sprintf("Diese Funktion ist nur mit einem Premium-Abonnement (Stufe %d oder höher) verfügbar. "+
		"Bitte kontaktieren Sie uns, um Ihr Abonnement zu erweitern.", tier)
}

func Decide(unlocked bool, opts Options, content string) View {
	if unlocked {
		return View{Content: content}
	}

	tier := opts.RequiredTier
	if tier <= 0 {
		tier = DefaultRequiredTier
	}
	title := opts.LockTitle
	if title == "" {
		title = DefaultLockTitle
	}
	msg := opts.LockMessage
	if msg == "" {
		msg = TierMessage(tier)
	}
	preview := true
	if opts.ShowLockedPreview != nil {
		preview = *opts.ShowLockedPreview
	}

	return View{
		Locked:      true,
		Title:       title,
		Message:     msg,
		Content:     content,
		ShowPreview: preview,
	}
}
