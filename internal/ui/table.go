package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"auctioneer/internal/store"
	"auctioneer/internal/util"

	"github.com/charmbracelet/lipgloss"
)

type auctionColumn struct {
	key   string
	label string
	width int
}

// cursorController is implemented by every scrollable list.
type cursorController interface {
	MoveDown()
	MoveUp()
	JumpToTop()
	JumpToBottom()
	HalfPageDown(pageSize int)
	HalfPageUp(pageSize int)
}

// AuctionTable renders one page of auctions with a cursor. Rows are pushed
// in by the owning screen whenever its store changes.
type AuctionTable struct {
	rows   []store.ListedAuction
	cursor int
	offset int

	viewportHeight int

	columns   []auctionColumn
	emptyText string
}

// NewAuctionTable creates an empty table. emptyText is shown when a loaded
// page has no auctions.
func NewAuctionTable(emptyText string) *AuctionTable {
	return &AuctionTable{
		emptyText:      emptyText,
		viewportHeight: 10,
		columns: []auctionColumn{
			{key: "title", label: "title", width: 30},
			{key: "category", label: "category", width: 14},
			{key: "seller", label: "seller", width: 18},
			{key: "reserve", label: "reserve", width: 10},
			{key: "bids", label: "bids", width: 6},
			{key: "highest", label: "highest", width: 10},
			{key: "closes", label: "closes", width: 24},
		},
	}
}

// SetRows replaces the rows, keeping the cursor on the same auction when it
// is still listed.
func (t *AuctionTable) SetRows(rows []store.ListedAuction) {
	var selected int
	if a := t.Selected(); a != nil {
		selected = a.AuctionID
	}
	t.rows = rows
	t.cursor = 0
	for i, r := range rows {
		if r.AuctionID == selected {
			t.cursor = i
			break
		}
	}
	t.clampCursor()
}

// Selected returns the auction under the cursor, nil when the table is empty.
func (t *AuctionTable) Selected() *store.ListedAuction {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return nil
	}
	return &t.rows[t.cursor]
}

func (t *AuctionTable) Len() int { return len(t.rows) }

func (t *AuctionTable) clampCursor() {
	if len(t.rows) == 0 {
		t.cursor = 0
		t.offset = 0
		return
	}
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.offset > t.cursor {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+t.viewportHeight {
		t.offset = t.cursor - t.viewportHeight + 1
	}
}

func (t *AuctionTable) cell(a store.ListedAuction, key string, categories *store.CategoriesStore, now time.Time) string {
	switch key {
	case "title":
		return a.Title
	case "category":
		return categories.Name(a.CategoryID)
	case "seller":
		return util.FullName(a.SellerFirstName, a.SellerLastName)
	case "reserve":
		return util.FormatMoney(a.Reserve)
	case "bids":
		return strconv.Itoa(a.NumBids)
	case "highest":
		return util.FormatHighestBid(a.HighestBid)
	case "closes":
		return util.FormatClosing(a.End, now)
	default:
		return ""
	}
}

// View renders the table into width x height.
func (t *AuctionTable) View(categories *store.CategoriesStore, width, height int, now time.Time) string {
	if len(t.rows) == 0 {
		return EmptyStateStyle.Width(width).Render(t.emptyText)
	}

	widths := make([]int, len(t.columns))
	headers := make([]string, len(t.columns))
	total := 0
	for i, col := range t.columns {
		headers[i] = strings.ToUpper(col.label)
		widths[i] = col.width
		total += col.width
	}
	if extra := width - total - 4; extra > 0 {
		widths[0] += extra
	}

	t.viewportHeight = max(1, height-1)
	t.clampCursor()

	lines := []string{renderTableRow(headers, widths, TableHeaderStyle)}
	for i := t.offset; i < len(t.rows) && i < t.offset+t.viewportHeight; i++ {
		row := t.rows[i]
		style := NormalRowStyle
		if i%2 == 1 {
			style = style.Background(ColorStripe)
		}
		if i == t.cursor {
			style = SelectedRowStyle
		}

		cells := make([]string, len(t.columns))
		for c, col := range t.columns {
			value := util.TruncateString(t.cell(row, col.key, categories, now), widths[c]-2)
			if col.key == "closes" && !row.End.IsZero() && !row.End.After(now) && i != t.cursor {
				value = ClosedStyle.Render(value)
			}
			cells[c] = value
		}
		lines = append(lines, renderTableRow(cells, widths, style))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// MoveDown moves the cursor down.
func (t *AuctionTable) MoveDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
		t.clampCursor()
	}
}

// MoveUp moves the cursor up.
func (t *AuctionTable) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.clampCursor()
	}
}

// JumpToTop jumps to the first item.
func (t *AuctionTable) JumpToTop() {
	t.cursor = 0
	t.offset = 0
}

// JumpToBottom jumps to the last item.
func (t *AuctionTable) JumpToBottom() {
	t.cursor = len(t.rows) - 1
	t.clampCursor()
}

// HalfPageDown moves down half a page.
func (t *AuctionTable) HalfPageDown(pageSize int) {
	t.cursor += pageSize / 2
	t.clampCursor()
}

// HalfPageUp moves up half a page.
func (t *AuctionTable) HalfPageUp(pageSize int) {
	t.cursor -= pageSize / 2
	t.clampCursor()
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		parts = append(parts, style.Width(widths[i]).MaxWidth(widths[i]).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

// pagerStatus describes where a paginated list is, "page 2 of 3 · 23 auctions".
func pagerStatus(pageIndex int, maxPage, total int, known bool) string {
	if !known {
		return fmt.Sprintf("page %d", pageIndex+1)
	}
	noun := "auctions"
	if total == 1 {
		noun = "auction"
	}
	return fmt.Sprintf("page %d of %d  ·  %d %s", pageIndex+1, maxPage+1, total, noun)
}

// renderLoadStatus is the banner for a store that is loading or failed,
// "" once it is done.
func renderLoadStatus(status store.LoadStatus, what string) string {
	switch {
	case status.IsPending():
		return StatusBarStyle.Render("Loading " + what + "...")
	case status.IsError():
		return ErrorStyle.Render(describeError(status.Err()))
	}
	return ""
}
