package client

import "strings"

// View is a screen of the client application.
type View uint8

const (
	ViewHome View = iota
	ViewFavourites
	ViewShare
)

// Views lists every view in menu order.
var Views = []View{ViewHome, ViewFavourites, ViewShare}

// ParseView maps a menu id to its view. Unknown ids fall back to Home.
func ParseView(id string) View {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "favourites":
		return ViewFavourites
	case "share":
		return ViewShare
	default:
		return ViewHome
	}
}

// ID returns the menu id of v.
func (v View) ID() string {
	switch v {
	case ViewFavourites:
		return "favourites"
	case ViewShare:
		return "share"
	default:
		return "home"
	}
}

// Label returns the menu caption of v.
func (v View) Label() string {
	switch v {
	case ViewFavourites:
		return "Favourites"
	case ViewShare:
		return "Share Link"
	default:
		return "Home"
	}
}

func (v View) String() string {
	return v.ID()
}
