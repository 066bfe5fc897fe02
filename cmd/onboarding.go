package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"auctioneer/internal/api"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// validateAPIURL accepts an absolute http(s) URL.
func validateAPIURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid api_url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api_url %q: must be an http or https URL", raw)
	}
	return nil
}

// shouldRunOnboarding is true on first start in an interactive terminal.
func shouldRunOnboarding(configDir string) bool {
	if _, err := os.Stat(configPath(configDir)); !errors.Is(err, os.ErrNotExist) {
		return false
	}
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

type onboardingStep int

const (
	stepServer onboardingStep = iota
	stepPhotos
	stepDone
)

type onboardingModel struct {
	step     onboardingStep
	photos   bool
	urlInput textinput.Model
	config   *Config
	canceled bool
	errText  string
	status   string
	width    int
	height   int
}

var (
	obColorMuted  = lipgloss.Color("#7C8496")
	obColorText   = lipgloss.Color("#D8DEE9")
	obColorAccent = lipgloss.Color("#D8A657")
	obColorDanger = lipgloss.Color("#F38BA8")

	obTitleStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obHeaderStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabsStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(obColorMuted)

	obTabInactive = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 2)

	obTabActive = lipgloss.NewStyle().
			Foreground(obColorText).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	obPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorMuted).
			Padding(1, 2)

	obInputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(obColorAccent).
			Padding(0, 1)

	obLabelStyle = lipgloss.NewStyle().
			Foreground(obColorAccent).
			Bold(true)

	obMutedStyle = lipgloss.NewStyle().
			Foreground(obColorMuted)

	obOptionStyle = lipgloss.NewStyle().
			Foreground(obColorText)

	obOptionSelected = lipgloss.NewStyle().
				Foreground(obColorAccent).
				Bold(true)

	obWarnStyle = lipgloss.NewStyle().
			Foreground(obColorDanger)

	obFooterStyle = lipgloss.NewStyle().
			Foreground(obColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(obColorMuted)
)

func newOnboardingModel(cfg *Config) onboardingModel {
	in := textinput.New()
	in.Placeholder = api.DefaultBaseURL
	in.SetValue(cfg.APIURL)
	in.CharLimit = 300
	in.Prompt = "url> "
	in.TextStyle = lipgloss.NewStyle().Foreground(obColorText)
	in.PlaceholderStyle = lipgloss.NewStyle().Foreground(obColorMuted)
	in.Cursor.Style = lipgloss.NewStyle().Foreground(obColorText).Background(obColorAccent)
	in.Focus()

	return onboardingModel{
		step:     stepServer,
		photos:   cfg.Photos,
		urlInput: in,
		config:   cfg,
	}
}

func (m onboardingModel) Init() tea.Cmd { return textinput.Blink }

func (m onboardingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.canceled = true
			m.status = "Setup canceled. Defaults will be used this time."
			m.step = stepDone
			return m, tea.Quit
		}
		switch m.step {
		case stepServer:
			switch msg.String() {
			case "enter":
				raw := strings.TrimSpace(m.urlInput.Value())
				if raw == "" {
					raw = api.DefaultBaseURL
				}
				if err := validateAPIURL(raw); err != nil {
					m.errText = "Enter an http:// or https:// URL"
					return m, nil
				}
				m.errText = ""
				m.config.APIURL = strings.TrimRight(raw, "/")
				m.step = stepPhotos
				return m, nil
			case "esc":
				m.errText = ""
				m.step = stepPhotos
				return m, nil
			}
			var cmd tea.Cmd
			m.urlInput, cmd = m.urlInput.Update(msg)
			return m, cmd
		case stepPhotos:
			switch msg.String() {
			case "y", "Y":
				m.photos = true
				return m.finish()
			case "n", "N":
				m.photos = false
				return m.finish()
			case "up", "k", "left", "h":
				m.photos = true
				return m, nil
			case "down", "j", "right", "l":
				m.photos = false
				return m, nil
			case "enter":
				return m.finish()
			case "esc":
				m.step = stepServer
				return m, nil
			}
			return m, nil
		}
	}
	return m, nil
}

func (m onboardingModel) finish() (tea.Model, tea.Cmd) {
	m.config.Photos = m.photos
	m.status = "Saved to " + configPath(m.config.ConfigDir)
	m.step = stepDone
	return m, tea.Quit
}

func (m onboardingModel) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 100
	}
	if height <= 0 {
		height = 28
	}

	header := m.renderHeader(width)
	tabs := m.renderTabs(width)
	footer := m.renderFooter(width)

	contentHeight := max(height-6, 8)
	content := m.renderContent(width, contentHeight)
	ui := lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, footer)

	return lipgloss.NewStyle().
		Foreground(obColorText).
		Width(width).
		Height(height).
		Render(ui)
}

func (m onboardingModel) renderHeader(width int) string {
	left := "  " + obTitleStyle.Render("auctioneer") + " " + obMutedStyle.Render("› Setup")
	right := obMutedStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "
	padding := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return obHeaderStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m onboardingModel) renderTabs(width int) string {
	serverTab := obTabInactive.Render("Server")
	photosTab := obTabInactive.Render("Photos")
	if m.step == stepServer {
		serverTab = obTabActive.Render("Server")
	}
	if m.step == stepPhotos {
		photosTab = obTabActive.Render("Photos")
	}
	return obTabsStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Left, "  ", serverTab, photosTab))
}

func (m onboardingModel) renderFooter(width int) string {
	switch m.step {
	case stepServer:
		return obFooterStyle.Width(width).Render("enter next  esc keep current  ctrl+c cancel")
	case stepPhotos:
		return obFooterStyle.Width(width).Render("↑↓/jk to choose  y/n enter to confirm  esc back")
	default:
		return obFooterStyle.Width(width).Render("Setup complete")
	}
}

func (m onboardingModel) renderContent(width, height int) string {
	cardWidth := min(92, width-6)
	if cardWidth < 40 {
		cardWidth = width - 2
	}

	var body string
	switch m.step {
	case stepServer:
		input := obInputStyle.Width(max(30, cardWidth-14)).Render(m.urlInput.View())
		lines := []string{
			obLabelStyle.Render("Which marketplace server should auctioneer talk to?"),
			"",
			obMutedStyle.Render("The API root, including the version path."),
			obMutedStyle.Render("Leave empty for " + api.DefaultBaseURL),
			"",
			input,
		}
		if m.errText != "" {
			lines = append(lines, "", obWarnStyle.Render(m.errText))
		}
		body = lipgloss.JoinVertical(lipgloss.Left, lines...)
	case stepPhotos:
		on := "Render auction and profile photos"
		off := "Text only"

		var onDisplay, offDisplay string
		if m.photos {
			onDisplay = "  " + obOptionSelected.Render("→ "+on)
			offDisplay = "    " + obOptionStyle.Render(off)
		} else {
			onDisplay = "    " + obOptionStyle.Render(on)
			offDisplay = "  " + obOptionSelected.Render("→ "+off)
		}

		body = lipgloss.JoinVertical(
			lipgloss.Left,
			obLabelStyle.Render("Show photos as terminal art?"),
			"",
			onDisplay,
			offDisplay,
			"",
			obMutedStyle.Render("You can change this later in ~/.auctioneer/config.yaml"),
		)
	default:
		msg := obMutedStyle.Render(m.status)
		if m.canceled {
			msg = obWarnStyle.Render(m.status)
		}
		body = lipgloss.JoinVertical(lipgloss.Left, obLabelStyle.Render("Setup Complete"), "", msg)
	}

	card := obPanelStyle.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}

func runOnboarding(configDir string) error {
	cfg := DefaultConfig(configDir)
	prog := tea.NewProgram(newOnboardingModel(cfg), tea.WithAltScreen())
	finalModel, err := prog.Run()
	if err != nil {
		return fmt.Errorf("onboarding tui failed: %w", err)
	}
	m, ok := finalModel.(onboardingModel)
	if !ok {
		return fmt.Errorf("unexpected onboarding model type")
	}
	if m.canceled {
		return nil
	}
	return SaveConfig(m.config)
}
