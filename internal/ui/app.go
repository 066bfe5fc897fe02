package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auctioneer/internal/api"
	"auctioneer/internal/editor"
	"auctioneer/internal/logging"
	"auctioneer/internal/model"
	"auctioneer/internal/store"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// Deps are the long-lived services every screen shares.
type Deps struct {
	Client   *api.Client
	Session  *store.Session
	Log      logrus.FieldLogger
	PageSize int
	Photos   bool
}

// refreshMsg is sent whenever a subscribed store changes.
type refreshMsg struct{}

type deleteDoneMsg struct{ err error }

type logoutDoneMsg struct{ err error }

// Model is the root Bubble Tea model.
type Model struct {
	ctx     context.Context
	deps    Deps
	refresh chan struct{}
	photos  *photoRenderer

	screen model.Screen
	mode   model.Mode
	gState GState

	width  int
	height int

	error       string
	info        string
	warning     string
	showingHelp bool
	keys        KeyMap

	categories  *store.CategoriesStore
	browse      *store.AuctionListStore
	browseTable *AuctionTable
	search      textinput.Model
	searching   bool
	picking     bool
	pickCursor  int

	mine       *store.MyAuctionsStore
	mineTable  *AuctionTable
	mineUnsub  func()
	mineUserID int

	detail       *AuctionDetailModel
	detailUnsub  func()
	detailReturn model.Screen
	history      []int
	deleter      *editor.DeleteAuctionStore

	profile       *ProfileModel
	profileUnsub  func()
	profileReturn model.Screen

	form       *FormModel
	formUnsub  func()
	formReturn model.Screen
}

// New creates the root model. Store calls made by the UI use ctx.
func New(ctx context.Context, deps Deps) Model {
	if deps.Log == nil {
		deps.Log = logging.Discard()
	}
	search := textinput.New()
	search.Placeholder = "search titles and descriptions"
	search.Prompt = "/ "
	search.CharLimit = 128

	m := Model{
		ctx:         ctx,
		deps:        deps,
		refresh:     make(chan struct{}, 1),
		photos:      newPhotoRenderer(deps.Photos),
		screen:      model.ScreenAuctions,
		mode:        model.ModeNav,
		gState:      GStateIdle,
		keys:        DefaultKeyMap(),
		categories:  store.NewCategoriesStore(deps.Client, deps.Session),
		browse:      store.NewAuctionListStore(deps.Client, deps.Session, deps.PageSize),
		browseTable: NewAuctionTable("No auctions match these filters. Press x to clear them."),
		mineTable:   NewAuctionTable("You are not selling or bidding on anything yet."),
		search:      search,
	}

	notify := m.notify()
	deps.Session.Subscribe(notify)
	m.categories.Subscribe(notify)
	m.browse.Subscribe(notify)
	return m
}

// notify wakes the program without blocking the store that changed.
func (m Model) notify() func() {
	ch := m.refresh
	return func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func waitForRefresh(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return refreshMsg{}
	}
}

// run calls fn off the UI goroutine. info is shown when fn succeeds.
func (m Model) run(info string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := fn(ctx); err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.InfoMsg{Text: info}
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitForRefresh(m.refresh),
		m.run("", m.categories.Fetch),
		m.run("", m.browse.Reload),
	}
	if u := m.deps.Session.User(); u != nil {
		cmds = append(cmds, m.run("", u.Details.Fetch))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case refreshMsg:
		m.sync()
		return m, waitForRefresh(m.refresh)

	case model.ErrorMsg:
		cmd := m.showError(msg.Err)
		return m, cmd

	case model.InfoMsg:
		if msg.Text != "" {
			m.info = msg.Text
		}
		return m, nil

	case formResultMsg:
		return m.handleFormResult(msg)

	case model.FormCancelledMsg:
		m.closeForm()
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			cmd := m.showError(msg.err)
			return m, cmd
		}
		m.closeDetail()
		m.history = nil
		m.screen = m.detailReturn
		m.info = "Auction deleted"
		cmd := m.reloadLists()
		return m, cmd

	case logoutDoneMsg:
		if msg.err != nil {
			cmd := m.showError(msg.err)
			return m, cmd
		}
		m.afterLogout()
		m.info = "Logged out"
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.screen.IsForm() && m.form != nil {
			form, cmd := m.form.Update(msg)
			m.form = &form
			return m, cmd
		}
		if m.searching {
			return m.handleSearchInput(msg)
		}
		if m.picking {
			return m.handleCategoryPicker(msg)
		}

		if key.Matches(msg, m.keys.Help) {
			m.showingHelp = !m.showingHelp
			return m, nil
		}
		if m.showingHelp {
			if msg.String() == "esc" {
				m.showingHelp = false
			}
			return m, nil
		}

		m.error, m.info, m.warning = "", "", ""
		return m.handleNavMode(msg)
	}

	return m, nil
}

// sync pushes store state into the screens that cache it.
func (m *Model) sync() {
	m.browseTable.SetRows(m.browse.Page.Items())

	if m.mine != nil && !m.deps.Session.IsCurrentUser(m.mineUserID) {
		m.dropMine()
	}
	if m.mine != nil {
		m.mineTable.SetRows(m.mine.Auctions())
	}
	if m.detail != nil {
		m.detail.Sync()
	}
}

func (m *Model) showError(err error) tea.Cmd {
	switch {
	case errors.Is(err, store.ErrNoNextPage), errors.Is(err, store.ErrNoPreviousPage), errors.Is(err, store.ErrLastPageUnknown):
		m.info = capitalize(err.Error())
		return nil
	case model.KindOf(err) == model.KindSessionExpired:
		m.deps.Log.WithError(err).Info("Session expired during request")
		m.info = "Your session has expired. Please log in again."
		m.afterLogout()
		return m.openLogin()
	}
	m.deps.Log.WithError(err).Warn("Operation failed")
	m.error = describeError(err)
	return nil
}

// describeError turns a store error into a message for the user.
func describeError(err error) string {
	switch model.KindOf(err) {
	case model.KindNone:
		return ""
	case model.KindValidation:
		return "Please fix the highlighted fields."
	case model.KindNotFound:
		return "Not found."
	case model.KindSessionExpired:
		return "Your session has expired. Please log in again."
	case model.KindServer:
		return err.Error()
	}
	switch {
	case errors.Is(err, store.ErrNotLoggedIn):
		return "Please log in first."
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to answer."
	}
	return "Something went wrong: " + err.Error()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (m *Model) reloadLists() tea.Cmd {
	cmds := []tea.Cmd{m.run("", m.browse.Refresh)}
	if m.mine != nil {
		cmds = append(cmds, m.run("", m.mine.Reload))
	}
	return tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	now := time.Now()
	showTabs := m.screen == model.ScreenAuctions || m.screen == model.ScreenMyAuctions ||
		(m.screen == model.ScreenProfile && m.profileReturn != model.ScreenAuctionDetail)

	contentHeight := m.height - 4
	if showTabs {
		contentHeight -= 2
	}

	var banners []string
	if m.error != "" {
		banners = append(banners, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.warning != "" {
		banners = append(banners, WarningStyle.Width(m.width).Render(m.warning))
	}
	if m.info != "" {
		banners = append(banners, SuccessStyle.Width(m.width).Render(m.info))
	}
	contentHeight -= len(banners)

	var content string
	var breadcrumb []string
	switch m.screen {
	case model.ScreenAuctions:
		breadcrumb = []string{"Auctions"}
		content = m.viewBrowse(contentHeight, now)
	case model.ScreenMyAuctions:
		breadcrumb = []string{"My Auctions"}
		content = m.viewMine(contentHeight, now)
	case model.ScreenProfile:
		breadcrumb = []string{"Profile"}
		if m.profile != nil {
			breadcrumb = []string{m.profile.profile.PageTitle()}
			content = m.profile.View(m.width, contentHeight)
		} else {
			content = EmptyStateStyle.Render("Log in to see your profile.\nPress L to log in or R to register.")
		}
	case model.ScreenAuctionDetail:
		breadcrumb = []string{"Auctions", "Detail"}
		if m.detail != nil {
			breadcrumb = []string{"Auctions", m.detail.Title()}
			content = m.detail.View(m.width, contentHeight, now)
		}
	default:
		if m.form != nil {
			breadcrumb = []string{m.form.title}
			content = m.form.View(m.width, contentHeight)
		}
	}

	header := renderHeader(breadcrumb, m.userLabel(), m.width)
	footer := RenderHelp(m.screen, m.mode, m.keys, m.width)

	content = lipgloss.NewStyle().
		Width(m.width).
		Height(max(0, contentHeight)).
		MaxHeight(max(0, contentHeight)).
		Render(content)

	parts := []string{header}
	if showTabs {
		parts = append(parts, renderTabs(m.screen, m.width))
	}
	parts = append(parts, banners...)
	parts = append(parts, content, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) userLabel() string {
	u := m.deps.Session.User()
	if u == nil {
		return "not logged in"
	}
	if d := u.Details.Details(); d != nil {
		return d.FirstName + " " + d.LastName
	}
	return fmt.Sprintf("user #%d", u.ID)
}

func (m Model) viewBrowse(height int, now time.Time) string {
	f := m.browse.Filters.Build()
	var filters []string
	if m.searching {
		filters = append(filters, m.search.View())
	} else if f.Query != "" {
		filters = append(filters, fmt.Sprintf("%q", f.Query))
	}
	filters = append(filters, "sort: "+f.SortBy.Label(), "status: "+strings.ToLower(string(f.Status)))
	if len(f.CategoryIDs) > 0 {
		var names []string
		for _, id := range f.CategoryIDs {
			names = append(names, m.categories.Name(id))
		}
		filters = append(filters, "categories: "+strings.Join(names, ", "))
	}
	summary := StatusBarStyle.Render(strings.Join(filters, "  ·  "))

	page := m.browse.Page
	total, known := page.TotalCount()
	last, _ := page.MaxPageIndex()
	status := StatusBarStyle.Render(pagerStatus(page.PageIndex(), last, total, known))
	if banner := renderLoadStatus(page.Status(), "auctions"); banner != "" {
		status = banner
	}

	body := m.browseTable.View(m.categories, m.width, height-4, now)
	if m.picking {
		body = m.viewCategoryPicker(f.CategoryIDs)
	}
	return lipgloss.JoinVertical(lipgloss.Left, summary, body, "", status)
}

func (m Model) viewCategoryPicker(selected []int) string {
	chosen := make(map[int]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}
	lines := []string{LabelStyle.Render("Categories") + HelpDescStyle.Render("  space toggle  enter/esc done")}
	for i, c := range m.categories.Categories() {
		mark := "[ ]"
		if chosen[c.CategoryID] {
			mark = "[x]"
		}
		style := NormalRowStyle
		if i == m.pickCursor {
			style = SelectedRowStyle
		}
		lines = append(lines, style.Render(mark+" "+c.Name))
	}
	if len(lines) == 1 {
		lines = append(lines, renderLoadStatus(m.categories.Status(), "categories"))
	}
	return BorderStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewMine(height int, now time.Time) string {
	if m.mine == nil {
		return EmptyStateStyle.Render("Log in to see the auctions you sell and bid on.\nPress L to log in or R to register.")
	}
	total, known := m.mine.TotalCount()
	last, _ := m.mine.MaxPageIndex()
	status := StatusBarStyle.Render(pagerStatus(m.mine.PageIndex(), last, total, known))
	if banner := renderLoadStatus(m.mine.Status(), "your auctions"); banner != "" {
		status = banner
	}
	body := m.mineTable.View(m.categories, m.width, height-2, now)
	return lipgloss.JoinVertical(lipgloss.Left, body, "", status)
}

var tabs = []struct {
	name   string
	screen model.Screen
}{
	{"Auctions", model.ScreenAuctions},
	{"My Auctions", model.ScreenMyAuctions},
	{"Profile", model.ScreenProfile},
}

func renderTabs(screen model.Screen, width int) string {
	var tabStrings []string
	for _, tab := range tabs {
		tabStyle := lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

		if screen == tab.screen {
			tabStyle = tabStyle.
				Foreground(ColorText).
				Bold(true).
				Underline(true)
		}

		tabStrings = append(tabStrings, tabStyle.Render(tab.name))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		Render(tabBar)
}

func renderHeader(breadcrumbParts []string, user string, width int) string {
	title := HeaderStyle.Render("auctioneer")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb
	right := BreadcrumbStyle.Render(user) + "  "

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if t := m.currentTable(); t != nil {
		if msg.String() == "g" {
			if m.gState == GStateFirstG {
				m.gState = GStateIdle
				t.JumpToTop()
				return m, nil
			}
			m.gState = GStateFirstG
			return m, nil
		}
		m.gState = GStateIdle

		switch {
		case key.Matches(msg, m.keys.Down):
			t.MoveDown()
			return m, nil
		case key.Matches(msg, m.keys.Up):
			t.MoveUp()
			return m, nil
		case key.Matches(msg, m.keys.Bottom):
			t.JumpToBottom()
			return m, nil
		case key.Matches(msg, m.keys.HalfPageDown):
			t.HalfPageDown(m.height / 2)
			return m, nil
		case key.Matches(msg, m.keys.HalfPageUp):
			t.HalfPageUp(m.height / 2)
			return m, nil
		}
	}

	switch m.screen {
	case model.ScreenAuctions, model.ScreenMyAuctions:
		if next, cmd, ok := m.handleTabNav(msg); ok {
			return next, cmd
		}
		if m.screen == model.ScreenAuctions {
			return m.handleBrowseNav(msg)
		}
		return m.handleMineNav(msg)
	case model.ScreenAuctionDetail:
		return m.handleDetailNav(msg)
	case model.ScreenProfile:
		if m.profileReturn != model.ScreenAuctionDetail {
			if next, cmd, ok := m.handleTabNav(msg); ok {
				return next, cmd
			}
		}
		return m.handleProfileNav(msg)
	}
	return m, nil
}

func (m *Model) currentTable() cursorController {
	switch m.screen {
	case model.ScreenAuctions:
		if !m.picking {
			return m.browseTable
		}
	case model.ScreenMyAuctions:
		if m.mine != nil {
			return m.mineTable
		}
	case model.ScreenAuctionDetail:
		if m.detail != nil {
			return m.detail.similar
		}
	}
	return nil
}

// handleTabNav handles the keys shared by the tabbed top-level screens.
func (m Model) handleTabNav(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.PrevTab), key.Matches(msg, m.keys.NextTab):
		step := 1
		if key.Matches(msg, m.keys.PrevTab) {
			step = len(tabs) - 1
		}
		current := 0
		for i, tab := range tabs {
			if tab.screen == m.screen {
				current = i
			}
		}
		cmd := m.switchTab(tabs[(current+step)%len(tabs)].screen)
		return m, cmd, true
	case key.Matches(msg, m.keys.Login):
		cmd := m.openLogin()
		return m, cmd, true
	case key.Matches(msg, m.keys.Register):
		cmd := m.openRegister()
		return m, cmd, true
	case key.Matches(msg, m.keys.Logout):
		cmd := m.logout()
		return m, cmd, true
	case key.Matches(msg, m.keys.Create):
		cmd := m.openCreateAuction()
		return m, cmd, true
	}
	return m, nil, false
}

func (m *Model) switchTab(screen model.Screen) tea.Cmd {
	m.screen = screen
	switch screen {
	case model.ScreenMyAuctions:
		return m.ensureMine()
	case model.ScreenProfile:
		u := m.deps.Session.User()
		if u == nil {
			m.closeProfile()
			return nil
		}
		if m.profile != nil && m.profile.profile.User.ID == u.ID {
			m.profileReturn = screen
			return nil
		}
		return m.openProfile(u.ID)
	}
	return nil
}

// ensureMine creates the my-auctions store for the logged-in user.
func (m *Model) ensureMine() tea.Cmd {
	u := m.deps.Session.User()
	if u == nil {
		m.dropMine()
		return nil
	}
	if m.mine != nil && m.mineUserID == u.ID {
		return nil
	}
	m.dropMine()
	m.mine = store.NewMyAuctionsStore(m.deps.Client, m.deps.Session, u.ID, m.deps.PageSize)
	m.mineUserID = u.ID
	m.mineUnsub = m.mine.Subscribe(m.notify())
	return m.run("", m.mine.Reload)
}

func (m *Model) dropMine() {
	if m.mineUnsub != nil {
		m.mineUnsub()
	}
	m.mine, m.mineUnsub, m.mineUserID = nil, nil, 0
	m.mineTable.SetRows(nil)
}

func (m Model) handleBrowseNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := m.browse
	switch {
	case key.Matches(msg, m.keys.Select):
		if a := m.browseTable.Selected(); a != nil {
			cmd := m.openAuction(a.AuctionID)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.mode = model.ModeInsert
		m.search.SetValue(b.Filters.Build().Query)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Sort):
		b.Filters.CycleSortBy()
		return m, m.run("", b.Reload)
	case key.Matches(msg, m.keys.Status):
		b.Filters.CycleStatus()
		return m, m.run("", b.Reload)
	case key.Matches(msg, m.keys.Category):
		m.picking = true
		m.pickCursor = 0
		if !m.categories.Loaded() {
			return m, m.run("", m.categories.Fetch)
		}
	case key.Matches(msg, m.keys.Clear):
		b.Filters.Clear()
		m.search.SetValue("")
		return m, m.run("Filters cleared", b.Reload)
	case key.Matches(msg, m.keys.NextPage):
		return m, m.run("", b.GoToNextPage)
	case key.Matches(msg, m.keys.PrevPage):
		return m, m.run("", b.GoToPrevPage)
	case key.Matches(msg, m.keys.FirstPage):
		return m, m.run("", b.GoToFirstPage)
	case key.Matches(msg, m.keys.LastPage):
		return m, m.run("", b.GoToLastPage)
	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(m.run("", b.Refresh), m.run("", m.categories.Fetch))
	}
	return m, nil
}

func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.mode = model.ModeNav
		m.search.Blur()
		m.browse.Filters.SetQuery(strings.TrimSpace(m.search.Value()))
		return m, m.run("", m.browse.Reload)
	case "esc":
		m.searching = false
		m.mode = model.ModeNav
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleCategoryPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	categories := m.categories.Categories()
	switch msg.String() {
	case "j", "down":
		if m.pickCursor < len(categories)-1 {
			m.pickCursor++
		}
	case "k", "up":
		if m.pickCursor > 0 {
			m.pickCursor--
		}
	case " ", "x":
		if m.pickCursor < len(categories) {
			m.browse.Filters.ToggleCategory(categories[m.pickCursor].CategoryID)
		}
	case "enter", "esc", "c":
		m.picking = false
		return m, m.run("", m.browse.Reload)
	}
	return m, nil
}

func (m Model) handleMineNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mine == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Select):
		if a := m.mineTable.Selected(); a != nil {
			cmd := m.openAuction(a.AuctionID)
			return m, cmd
		}
	case key.Matches(msg, m.keys.NextPage):
		return m, m.run("", m.mine.GoToNextPage)
	case key.Matches(msg, m.keys.PrevPage):
		return m, m.run("", m.mine.GoToPrevPage)
	case key.Matches(msg, m.keys.FirstPage):
		return m, m.run("", m.mine.GoToFirstPage)
	case key.Matches(msg, m.keys.LastPage):
		return m, m.run("", m.mine.GoToLastPage)
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run("", m.mine.Reload)
	}
	return m, nil
}

// openAuction shows the auction page. Opening one auction from another
// remembers the way back.
func (m *Model) openAuction(auctionID int) tea.Cmd {
	if m.detail != nil && m.screen == model.ScreenAuctionDetail {
		m.history = append(m.history, m.detail.view.AuctionID())
	} else if m.screen != model.ScreenAuctionDetail {
		m.detailReturn = m.screen
		if m.detailReturn.IsForm() || m.detailReturn == model.ScreenProfile {
			m.detailReturn = model.ScreenAuctions
		}
		m.history = nil
	}
	return m.showAuction(auctionID)
}

func (m *Model) showAuction(auctionID int) tea.Cmd {
	m.closeDetail()
	view := store.NewAuctionViewStore(m.deps.Client, m.deps.Session, m.categories, auctionID, m.deps.PageSize)
	m.detail = NewAuctionDetailModel(view, m.photos)
	m.detailUnsub = view.Subscribe(m.notify())
	m.deleter = editor.NewDeleteAuctionStore(m.deps.Client, m.deps.Session, auctionID)
	m.screen = model.ScreenAuctionDetail
	m.mode = model.ModeNav
	return m.run("", view.Load)
}

func (m *Model) closeDetail() {
	if m.detailUnsub != nil {
		m.detailUnsub()
	}
	m.detail, m.detailUnsub, m.deleter = nil, nil, nil
}

func (m Model) handleDetailNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail == nil {
		return m, nil
	}
	view := m.detail.view
	confirming := m.detail.confirmDelete
	m.detail.confirmDelete = false

	switch {
	case key.Matches(msg, m.keys.Back):
		if n := len(m.history); n > 0 {
			previous := m.history[n-1]
			m.history = m.history[:n-1]
			cmd := m.showAuction(previous)
			return m, cmd
		}
		m.closeDetail()
		m.screen = m.detailReturn
		return m, nil
	case key.Matches(msg, m.keys.Select):
		if a := m.detail.similar.Selected(); a != nil {
			cmd := m.openAuction(a.AuctionID)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run("", view.Load)
	case key.Matches(msg, m.keys.Seller):
		if a := view.Details.Auction(); a != nil {
			cmd := m.openProfile(a.SellerID)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Bid):
		cmd := m.openPlaceBid()
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		cmd := m.openEditAuction()
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		if !view.IsOwnAuction() {
			m.info = "Only the seller can delete an auction."
			return m, nil
		}
		if !confirming {
			m.detail.confirmDelete = true
			return m, nil
		}
		deleter, ctx := m.deleter, m.ctx
		return m, func() tea.Msg { return deleteDoneMsg{err: deleter.Submit(ctx)} }
	}
	return m, nil
}

func (m *Model) openProfile(userID int) tea.Cmd {
	m.closeProfile()
	m.profileReturn = m.screen
	profile := store.NewProfileStore(m.deps.Session, userID)
	m.profile = NewProfileModel(profile, m.photos)
	m.profileUnsub = profile.Subscribe(m.notify())
	m.screen = model.ScreenProfile
	return m.run("", profile.Load)
}

func (m *Model) closeProfile() {
	if m.profileUnsub != nil {
		m.profileUnsub()
	}
	m.profile, m.profileUnsub = nil, nil
}

func (m Model) handleProfileNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) && m.profileReturn == model.ScreenAuctionDetail {
		m.closeProfile()
		m.screen = model.ScreenAuctionDetail
		return m, nil
	}
	if m.profile == nil {
		return m, nil
	}
	user := m.profile.profile.User
	account := user.Account()

	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run("", m.profile.profile.Load)
	case account == nil:
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		if f := editor.NewProfileDetailsEditor(m.deps.Client, m.deps.Session, user); f != nil {
			cmd := m.openForm(model.ScreenEditProfile, newProfileForm(m.ctx, f), f.Subscribe)
			return m, cmd
		}
	case key.Matches(msg, m.keys.Password):
		f := editor.NewPasswordEditor(m.deps.Client, m.deps.Session, account)
		cmd := m.openForm(model.ScreenChangePassword, newPasswordForm(m.ctx, f), f.Subscribe)
		return m, cmd
	case key.Matches(msg, m.keys.UploadPhoto):
		cmd := m.openForm(model.ScreenUploadPhoto, newUploadPhotoForm(m.ctx, account), account.Subscribe)
		return m, cmd
	case key.Matches(msg, m.keys.DeletePhoto):
		if !user.Photo.HasPhoto() {
			m.info = "You have no photo to remove."
			return m, nil
		}
		return m, m.run("Photo removed", account.DeletePhoto)
	case key.Matches(msg, m.keys.Logout):
		cmd := m.logout()
		return m, cmd
	}
	return m, nil
}

// openForm switches to a form screen. subscribe is the editor store's
// Subscribe so field errors re-render as the submission settles.
func (m *Model) openForm(screen model.Screen, form *FormModel, subscribe func(func()) func()) tea.Cmd {
	m.closeForm()
	m.formReturn = m.screen
	m.form = form
	m.formUnsub = subscribe(m.notify())
	m.screen = screen
	m.mode = model.ModeInsert
	return textinput.Blink
}

func (m *Model) closeForm() {
	if m.formUnsub != nil {
		m.formUnsub()
	}
	if m.form != nil {
		m.screen = m.formReturn
	}
	m.form, m.formUnsub = nil, nil
	m.mode = model.ModeNav
}

func (m Model) handleFormResult(msg formResultMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	if msg.err != nil {
		if model.KindOf(msg.err) == model.KindSessionExpired {
			m.closeForm()
			cmd := m.showError(msg.err)
			return m, cmd
		}
		m.deps.Log.WithError(msg.err).Debug("Form submission rejected")
		m.form.SetError(describeError(msg.err))
		return m, nil
	}

	screen := m.screen
	m.closeForm()
	m.info = msg.info
	m.warning = ""
	if msg.warning != nil {
		m.deps.Log.WithError(msg.warning).Warn("Submission completed with a warning")
		m.warning = capitalize(msg.warning.Error())
	}

	switch {
	case msg.openAuctionID > 0:
		cmd := tea.Batch(m.openAuction(msg.openAuctionID), m.reloadLists())
		return m, cmd
	case screen == model.ScreenLogin || screen == model.ScreenRegister:
		var cmds []tea.Cmd
		if u := m.deps.Session.User(); u != nil {
			cmds = append(cmds, m.run("", u.Details.Fetch))
		}
		switch {
		case m.screen == model.ScreenMyAuctions:
			cmds = append(cmds, m.ensureMine())
		case m.screen == model.ScreenProfile && m.profile == nil:
			if u := m.deps.Session.User(); u != nil {
				cmds = append(cmds, m.openProfile(u.ID))
			}
		}
		cmd := tea.Batch(cmds...)
		return m, cmd
	case screen == model.ScreenEditAuction || screen == model.ScreenPlaceBid:
		cmd := m.reloadLists()
		return m, cmd
	}
	return m, nil
}

func (m *Model) openLogin() tea.Cmd {
	if m.deps.Session.IsLoggedIn() {
		m.info = "You are already logged in."
		return nil
	}
	s := editor.NewLoginStore(m.deps.Session)
	return m.openForm(model.ScreenLogin, newLoginForm(m.ctx, s), s.Subscribe)
}

func (m *Model) openRegister() tea.Cmd {
	if m.deps.Session.IsLoggedIn() {
		m.info = "Log out before creating another account."
		return nil
	}
	s := editor.NewRegisterStore(m.deps.Client, m.deps.Session)
	return m.openForm(model.ScreenRegister, newRegisterForm(m.ctx, s), s.Subscribe)
}

func (m *Model) openCreateAuction() tea.Cmd {
	if !m.deps.Session.IsLoggedIn() {
		m.info = "Log in to list an auction."
		return m.openLogin()
	}
	s := editor.NewCreateAuctionStore(m.deps.Client, m.deps.Session, m.categories)
	cmd := m.openForm(model.ScreenCreateAuction, newCreateAuctionForm(m.ctx, s), s.Subscribe)
	if !m.categories.Loaded() {
		cmd = tea.Batch(cmd, m.run("", m.categories.Fetch))
	}
	return cmd
}

func (m *Model) openEditAuction() tea.Cmd {
	view := m.detail.view
	if !view.IsOwnAuction() {
		m.info = "Only the seller can edit an auction."
		return nil
	}
	if view.Bids.Leader() != nil {
		m.info = "An auction cannot be edited once it has bids."
		return nil
	}
	s := editor.NewAuctionEditStore(m.deps.Client, m.deps.Session, view.Details, m.categories)
	if s == nil {
		m.info = "The auction is still loading."
		return nil
	}
	return m.openForm(model.ScreenEditAuction, newEditAuctionForm(m.ctx, s), s.Subscribe)
}

func (m *Model) openPlaceBid() tea.Cmd {
	view := m.detail.view
	a := view.Details.Auction()
	switch {
	case a == nil:
		m.info = "The auction is still loading."
		return nil
	case !m.deps.Session.IsLoggedIn():
		m.info = "Log in to place a bid."
		return m.openLogin()
	case view.IsOwnAuction():
		m.info = "You cannot bid on your own auction."
		return nil
	case view.Details.IsClosed(time.Now()):
		m.info = "This auction has closed."
		return nil
	}
	s := editor.NewPlaceBidStore(m.deps.Client, m.deps.Session, view.Bids)
	return m.openForm(model.ScreenPlaceBid, newPlaceBidForm(m.ctx, s, a.Title), s.Subscribe)
}

func (m *Model) logout() tea.Cmd {
	if !m.deps.Session.IsLoggedIn() {
		m.info = "You are not logged in."
		return nil
	}
	session, ctx := m.deps.Session, m.ctx
	return func() tea.Msg { return logoutDoneMsg{err: session.LogOut(ctx)} }
}

// afterLogout drops the screens that belonged to the previous user.
func (m *Model) afterLogout() {
	m.dropMine()
	if m.profile != nil && m.profile.profile.User.IsEditable() {
		m.closeProfile()
	}
	if m.screen == model.ScreenProfile && m.profile == nil {
		m.screen = model.ScreenAuctions
	}
}
