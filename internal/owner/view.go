// Package owner resolves the denormalized owner data attached to property responses.
package owner

import (
	"property_listing_backend/internal/identity"
	"property_listing_backend/internal/user"
)

const (
	// UnknownEmail and UnknownDisplayName fill the placeholder owner used when every lookup fails.
	UnknownEmail       = "Unknown"
	UnknownDisplayName = "Unknown User"
)

// View is the owner projection attached to a property response. It is never persisted.
type View struct {
	UID         string  `json:"uid"`
	Email       string  `json:"email"`
	DisplayName string  `json:"displayName"`
	Phone       *string `json:"phone"`
	PhotoURL    *string `json:"photoURL"`
}

// Placeholder is the owner view of a user that could not be resolved.
func Placeholder(uid string) View {
	return View{
		UID:         uid,
		Email:       UnknownEmail,
		DisplayName: UnknownDisplayName,
	}
}

// FromProfile projects a stored profile. Blank email and name fall back to the placeholder values.
func FromProfile(uid string, p *user.Profile) View {
	return View{
		UID:         uid,
		Email:       orDefault(p.Email, UnknownEmail),
		DisplayName: orDefault(p.DisplayName, UnknownDisplayName),
		Phone:       nonEmpty(p.Phone),
		PhotoURL:    nonEmpty(p.PhotoURL),
	}
}

// FromUserRecord projects the identity provider's record of a user.
func FromUserRecord(uid string, rec *identity.UserRecord) View {
	return View{
		UID:         uid,
		Email:       orDefault(rec.Email, UnknownEmail),
		DisplayName: orDefault(rec.DisplayName, user.DefaultDisplayName),
		Phone:       nonEmpty(&rec.PhoneNumber),
		PhotoURL:    nonEmpty(&rec.PhotoURL),
	}
}

// ForCaller projects the caller's own profile, which may be nil when none is stored.
// The verified email stands in for a missing stored one.
func ForCaller(caller *identity.Identity, p *user.Profile) View {
	if p == nil {
		p = &user.Profile{}
	}
	return View{
		UID:         caller.UserID,
		Email:       orDefault(p.Email, caller.Email),
		DisplayName: orDefault(p.DisplayName, user.DefaultDisplayName),
		Phone:       nonEmpty(p.Phone),
		PhotoURL:    nonEmpty(p.PhotoURL),
	}
}

// ForNewProperty projects the profile resolved while creating a property, falling back to
// client hints when the profile carries no name or phone.
func ForNewProperty(caller *identity.Identity, p *user.Profile, hints user.ProfileHints) View {
	v := ForCaller(caller, p)
	if p == nil || p.DisplayName == "" {
		v.DisplayName = orDefault(hints.DisplayName, user.DefaultDisplayName)
	}
	if v.Phone == nil {
		v.Phone = nonEmpty(&hints.Phone)
	}
	return v
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
