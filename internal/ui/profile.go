package ui

import (
	"strings"

	"auctioneer/internal/store"

	"github.com/charmbracelet/lipgloss"
)

// ProfileModel represents a user's profile screen.
type ProfileModel struct {
	profile *store.ProfileStore
	photos  *photoRenderer
}

func NewProfileModel(profile *store.ProfileStore, photos *photoRenderer) *ProfileModel {
	return &ProfileModel{profile: profile, photos: photos}
}

// View renders the profile.
func (m *ProfileModel) View(width, height int) string {
	user := m.profile.User
	details := user.Details.Details()
	if details == nil {
		if banner := renderLoadStatus(user.Details.Status(), "profile"); banner != "" {
			return banner
		}
		return ""
	}

	var fields []string
	fields = append(fields, LabelStyle.Render(m.profile.PageTitle()))
	fields = append(fields, renderField("First name", details.FirstName))
	fields = append(fields, renderField("Last name", details.LastName))
	if details.Email != nil {
		fields = append(fields, renderField("Email", *details.Email))
	}

	if account := user.Account(); account != nil {
		fields = append(fields, "")
		status := account.Status()
		switch {
		case status.IsPending():
			fields = append(fields, StatusBarStyle.Render("Updating photo..."))
		case status.IsError():
			fields = append(fields, ErrorStyle.Render(describeError(status.Err())))
		}
		fields = append(fields, HelpDescStyle.Render("e edit  P password  u upload photo  x remove photo  O log out"))
	}

	photo := m.photos.Render(user.Photo.Photo(), photoWidth, photoHeight)
	if user.Photo.IsLoading() {
		photo = StatusBarStyle.Render("Loading photo...")
	}

	return PanelStyle.Width(max(20, width-4)).Render(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(photoWidth+2).Render(photo),
		"  ",
		strings.Join(fields, "\n"),
	))
}
