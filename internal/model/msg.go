package model

// Bubble Tea message types shared by every screen

// ErrorMsg reports a failed operation.
type ErrorMsg struct {
	Err error
}

// InfoMsg shows a short notice in the status banner.
type InfoMsg struct {
	Text string
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// Screen represents different app screens.
type Screen int

const (
	ScreenAuctions Screen = iota
	ScreenMyAuctions
	ScreenProfile
	ScreenAuctionDetail
	ScreenLogin
	ScreenRegister
	ScreenCreateAuction
	ScreenEditAuction
	ScreenPlaceBid
	ScreenEditProfile
	ScreenChangePassword
	ScreenUploadPhoto
)

// IsForm reports whether s is a form screen.
func (s Screen) IsForm() bool {
	return s >= ScreenLogin
}

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
)
