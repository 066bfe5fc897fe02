package ui

import (
	"fmt"
	"strings"
	"time"

	"auctioneer/internal/store"
	"auctioneer/internal/util"

	"github.com/charmbracelet/lipgloss"
)

const (
	photoWidth  = 36
	photoHeight = 14
	maxBidRows  = 8
)

// AuctionDetailModel represents the auction detail screen.
type AuctionDetailModel struct {
	view    *store.AuctionViewStore
	photos  *photoRenderer
	similar *AuctionTable

	// confirmDelete is set after the first delete key press.
	confirmDelete bool
}

// NewAuctionDetailModel creates a detail screen over view.
func NewAuctionDetailModel(view *store.AuctionViewStore, photos *photoRenderer) *AuctionDetailModel {
	return &AuctionDetailModel{
		view:    view,
		photos:  photos,
		similar: NewAuctionTable("No similar auctions."),
	}
}

// Sync copies the similar auctions into the table.
func (m *AuctionDetailModel) Sync() {
	if similar := m.view.Similar(); similar != nil {
		m.similar.SetRows(similar.Auctions())
	}
}

// Title is the breadcrumb label.
func (m *AuctionDetailModel) Title() string {
	if a := m.view.Details.Auction(); a != nil {
		return util.TruncateString(a.Title, 40)
	}
	return fmt.Sprintf("Auction #%d", m.view.AuctionID())
}

// View renders the auction detail.
func (m *AuctionDetailModel) View(width, height int, now time.Time) string {
	details := m.view.Details
	if details.DoesNotExist() {
		return EmptyStateStyle.Width(width).Render(
			fmt.Sprintf("Auction #%d does not exist. It may have been deleted.\nPress h to go back.", m.view.AuctionID()))
	}
	a := details.Auction()
	if a == nil {
		if banner := renderLoadStatus(m.view.Status(), "auction"); banner != "" {
			return banner
		}
		return ""
	}

	var fields []string
	fields = append(fields, LabelStyle.Render(a.Title))
	fields = append(fields, renderField("Category", m.view.Categories.Name(a.CategoryID)))
	fields = append(fields, renderField("Seller", util.FullName(a.SellerFirstName, a.SellerLastName)))
	fields = append(fields, renderField("Reserve", util.FormatMoney(a.Reserve)))

	closes := util.FormatClosing(details.EndDate(), now)
	if details.IsClosed(now) {
		closes = ClosedStyle.Render(closes)
	}
	fields = append(fields, renderField("Closes", closes))
	if highest, ok := m.view.Bids.HighestBid(); ok {
		fields = append(fields, renderField("Highest bid", util.FormatMoney(highest)))
		if highest < a.Reserve {
			fields = append(fields, HelpDescStyle.Render("Reserve not met"))
		}
	} else {
		fields = append(fields, renderField("Highest bid", "no bids yet"))
	}
	if m.view.IsOwnAuction() {
		fields = append(fields, LeaderStyle.Render("You are selling this auction"))
	}
	fields = append(fields, "", lipgloss.NewStyle().Width(max(20, width-photoWidth-12)).Render(a.Description))

	photo := m.photos.Render(m.view.Photo.Photo(), photoWidth, photoHeight)
	if m.view.Photo.IsLoading() {
		photo = StatusBarStyle.Render("Loading photo...")
	}
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(photoWidth+2).Render(photo),
		"  ",
		strings.Join(fields, "\n"),
	)

	divider := lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("─", max(0, width-4)))
	sections := []string{top, divider, LabelStyle.Render("Bids"), m.renderBids()}

	sections = append(sections, divider, LabelStyle.Render("Similar auctions"))
	similar := m.view.Similar()
	switch {
	case similar == nil || similar.IsLoading():
		sections = append(sections, StatusBarStyle.Render("Loading similar auctions..."))
	case similar.Status().IsError():
		sections = append(sections, ErrorStyle.Render(describeError(similar.Status().Err())))
	default:
		used := lipgloss.Height(strings.Join(sections, "\n"))
		sections = append(sections, m.similar.View(m.view.Categories, width, max(3, height-used-1), now))
	}

	if m.confirmDelete {
		sections = append(sections, ErrorStyle.Render("Press d again to delete this auction, any other key to keep it."))
	}
	return strings.Join(sections, "\n")
}

func (m *AuctionDetailModel) renderBids() string {
	bids := m.view.Bids
	if banner := renderLoadStatus(bids.Status(), "bids"); banner != "" {
		return banner
	}
	list := bids.Bids()
	if len(list) == 0 {
		return HelpDescStyle.Render("No bids yet. Press B to be the first!")
	}

	widths := []int{24, 12, 20}
	rows := []string{renderTableRow([]string{"BIDDER", "AMOUNT", "WHEN"}, widths, TableHeaderStyle)}
	for i, b := range list {
		if i >= maxBidRows {
			rows = append(rows, HelpDescStyle.Render(fmt.Sprintf("  and %d more", len(list)-maxBidRows)))
			break
		}
		name := util.FullName(b.FirstName, b.LastName)
		style := NormalRowStyle
		if i == 0 {
			name = "★ " + name
			style = LeaderStyle
		}
		rows = append(rows, renderTableRow(
			[]string{name, util.FormatMoney(b.Amount), util.FormatBidTime(b.Timestamp)},
			widths, style))
	}
	return strings.Join(rows, "\n")
}

func renderField(label, value string) string {
	if value == "" {
		value = "—"
	}
	return LabelStyle.Render(label+":") + " " + NormalRowStyle.Render(value)
}
