package ui

import (
	"strings"

	"auctioneer/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders the context-sensitive help footer.
func RenderHelp(screen model.Screen, mode model.Mode, keys KeyMap, width int) string {
	if mode == model.ModeInsert {
		if screen == model.ScreenAuctions {
			return renderHelpLine([]string{helpKey("enter", "search"), helpKey("esc", "cancel")}, width)
		}
		return renderFormHelp(DefaultFormKeyMap(), width)
	}

	var bindings []key.Binding
	switch screen {
	case model.ScreenAuctions:
		bindings = []key.Binding{keys.Select, keys.Search, keys.Sort, keys.Status, keys.Category,
			keys.Clear, keys.NextPage, keys.PrevPage, keys.Create, keys.NextTab}
	case model.ScreenMyAuctions:
		bindings = []key.Binding{keys.Select, keys.NextPage, keys.PrevPage, keys.Refresh, keys.Create, keys.NextTab}
	case model.ScreenAuctionDetail:
		bindings = []key.Binding{keys.Back, keys.Bid, keys.Seller, keys.Edit, keys.Delete, keys.Select, keys.Refresh}
	case model.ScreenProfile:
		bindings = []key.Binding{keys.Back, keys.Edit, keys.Password, keys.UploadPhoto, keys.Refresh}
	default:
		bindings = []key.Binding{keys.Up, keys.Down, keys.Quit}
	}
	bindings = append(bindings, keys.Help)

	line := make([]string, 0, len(bindings))
	for _, b := range bindings {
		line = append(line, helpKey(b.Help().Key, b.Help().Desc))
	}
	return renderHelpLine(line, width)
}

func renderFormHelp(keys FormKeyMap, width int) string {
	var line []string
	for _, b := range []key.Binding{keys.NextField, keys.PrevField, keys.Save, keys.Cancel} {
		line = append(line, helpKey(b.Help().Key, b.Help().Desc))
	}
	return renderHelpLine(line, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).MaxHeight(1).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Navigation"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"h / b / esc", "Go back"},
			{"l / enter", "Open the selected auction"},
			{"← / →", "Switch tab"},
			{"gg", "Jump to top"},
			{"G", "Jump to bottom"},
			{"ctrl+d", "Half page down"},
			{"ctrl+u", "Half page up"},
			{"n / p", "Next / previous page"},
			{"< / >", "First / last page"},
			{"r", "Refresh"},
			{"q", "Quit"},
			{"?", "Toggle help"},
		}),
		titleSection("Auctions"),
		helpSection([]helpItem{
			{"/", "Search titles and descriptions"},
			{"s", "Cycle sort order"},
			{"f", "Cycle open / closed / any"},
			{"c", "Pick categories (space toggles)"},
			{"x", "Clear all filters"},
			{"a", "List a new auction"},
		}),
		titleSection("Auction Detail"),
		helpSection([]helpItem{
			{"B", "Place a bid"},
			{"s", "View the seller"},
			{"e", "Edit your auction (before any bids)"},
			{"d d", "Delete your auction"},
			{"enter", "Open a similar auction"},
		}),
		titleSection("Account"),
		helpSection([]helpItem{
			{"L / R", "Log in / register"},
			{"O", "Log out"},
			{"e", "Edit your profile"},
			{"P", "Change password"},
			{"u / x", "Upload / remove photo"},
		}),
		titleSection("Forms"),
		helpSection([]helpItem{
			{"tab", "Next field"},
			{"shift+tab", "Previous field"},
			{"enter", "Next field, or save on the last one"},
			{"ctrl+s", "Save"},
			{"esc", "Cancel"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
