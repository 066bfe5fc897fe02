package ui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"auctioneer/internal/editor"
	"auctioneer/internal/form"
	"auctioneer/internal/model"
	"auctioneer/internal/store"
	"auctioneer/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// formResultMsg is sent when a form submission finishes.
type formResultMsg struct {
	err     error
	info    string
	warning error
	// openAuctionID opens the auction page after a successful submit.
	openAuctionID int
}

// formField is one text input bound to a form value. apply pushes the text
// into the value and returns an error for input it cannot parse.
type formField struct {
	label    string
	input    textinput.Model
	applied  string
	apply    func(text string) error
	err      func() string
	deferred bool

	parseErr string
}

func (f *formField) push(text string) {
	f.applied = text
	f.parseErr = ""
	if err := f.apply(text); err != nil {
		f.parseErr = err.Error()
	}
}

func (f *formField) errorText() string {
	if f.parseErr != "" {
		return f.parseErr
	}
	if f.err == nil {
		return ""
	}
	return f.err()
}

// FormModel is a form screen over one editor store.
type FormModel struct {
	ctx     context.Context
	title   string
	intro   string
	fields  []*formField
	focused int
	keys    FormKeyMap

	busy   func() bool
	submit func(ctx context.Context) tea.Msg
	error  string
}

func newFormModel(ctx context.Context, title string, fields []*formField, busy func() bool, submit func(ctx context.Context) tea.Msg) *FormModel {
	m := &FormModel{
		ctx:    ctx,
		title:  title,
		fields: fields,
		keys:   DefaultFormKeyMap(),
		busy:   busy,
		submit: submit,
	}
	if len(fields) > 0 {
		fields[0].input.Focus()
	}
	return m
}

// Update handles all messages.
func (m FormModel) Update(msg tea.Msg) (FormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		return m, func() tea.Msg { return model.FormCancelledMsg{} }
	case key.Matches(keyMsg, m.keys.Save):
		cmd := m.save()
		return m, cmd
	case keyMsg.String() == "enter":
		if m.focused == len(m.fields)-1 {
			cmd := m.save()
			return m, cmd
		}
		m.nextField()
		return m, nil
	case key.Matches(keyMsg, m.keys.NextField):
		m.nextField()
		return m, nil
	case key.Matches(keyMsg, m.keys.PrevField):
		m.prevField()
		return m, nil
	}

	if len(m.fields) == 0 {
		return m, nil
	}
	field := m.fields[m.focused]
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(keyMsg)
	if !field.deferred && field.input.Value() != field.applied {
		field.push(field.input.Value())
	}
	return m, cmd
}

func (m *FormModel) save() tea.Cmd {
	if m.busy != nil && m.busy() {
		return nil
	}
	for _, f := range m.fields {
		if f.deferred && f.input.Value() != f.applied {
			f.push(f.input.Value())
		}
	}
	for _, f := range m.fields {
		if f.parseErr != "" {
			m.error = "Please fix the highlighted fields."
			return nil
		}
	}
	m.error = ""
	ctx, submit := m.ctx, m.submit
	return func() tea.Msg { return submit(ctx) }
}

// SetError shows a form-level error, e.g. from the server.
func (m *FormModel) SetError(msg string) {
	m.error = msg
}

func (m *FormModel) nextField() {
	if len(m.fields) == 0 {
		return
	}
	m.fields[m.focused].input.Blur()
	m.focused = (m.focused + 1) % len(m.fields)
	m.fields[m.focused].input.Focus()
}

func (m *FormModel) prevField() {
	if len(m.fields) == 0 {
		return
	}
	m.fields[m.focused].input.Blur()
	m.focused--
	if m.focused < 0 {
		m.focused = len(m.fields) - 1
	}
	m.fields[m.focused].input.Focus()
}

// View renders the form.
func (m *FormModel) View(width, height int) string {
	var parts []string
	parts = append(parts, LabelStyle.Render(m.title))
	if m.intro != "" {
		parts = append(parts, HelpDescStyle.Render(m.intro))
	}

	for i, f := range m.fields {
		parts = append(parts, renderFormField(f.label, f.input, i == m.focused, f.errorText()))
	}

	if m.busy != nil && m.busy() {
		parts = append(parts, StatusBarStyle.Render("Saving..."))
	}
	if m.error != "" {
		parts = append(parts, ErrorStyle.Render(m.error))
	}

	return PanelStyle.
		Width(max(20, width-4)).
		Render(strings.Join(parts, "\n"))
}

func renderFormField(label string, input textinput.Model, focused bool, errText string) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}

	lines := []string{LabelStyle.Render(label), input.View()}
	if errText != "" {
		lines = append(lines, FieldErrorStyle.Render(errText))
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func newInput(placeholder, initial string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 256
	in.Width = 48
	in.SetValue(initial)
	return in
}

// textField binds a plain string value.
func textField(label, placeholder string, v *form.Value[string]) *formField {
	initial := v.Value()
	return &formField{
		label:   label,
		input:   newInput(placeholder, initial),
		applied: initial,
		apply:   func(text string) error { v.Set(text); return nil },
		err:     v.Error,
	}
}

func passwordField(label string, v *form.Value[string]) *formField {
	f := textField(label, "", v)
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

// categoryField accepts a category name or id.
func categoryField(v *form.Value[*int], categories *store.CategoriesStore) *formField {
	initial := ""
	if id := v.Value(); id != nil {
		initial = categories.Name(*id)
	}
	var names []string
	for _, c := range categories.Categories() {
		names = append(names, c.Name)
	}
	placeholder := "e.g. " + strings.Join(names[:min(3, len(names))], ", ")
	return &formField{
		label:   "Category",
		input:   newInput(placeholder, initial),
		applied: initial,
		apply: func(text string) error {
			text = strings.TrimSpace(text)
			if text == "" {
				v.Set(nil)
				return nil
			}
			id := 0
			for _, c := range categories.Categories() {
				if strings.EqualFold(c.Name, text) {
					id = c.CategoryID
					break
				}
			}
			if id == 0 {
				id, _ = strconv.Atoi(text)
			}
			v.Set(&id)
			return nil
		},
		err: v.Error,
	}
}

type parseError string

func (e parseError) Error() string { return string(e) }

func dateField(label string, v *form.Value[*time.Time]) *formField {
	initial := ""
	if t := v.Value(); t != nil {
		initial = util.FormatEndDateInput(*t)
	}
	return &formField{
		label:   label,
		input:   newInput("2026-12-24 18:00", initial),
		applied: initial,
		apply: func(text string) error {
			if strings.TrimSpace(text) == "" {
				v.Set(nil)
				return nil
			}
			t, err := util.ParseEndDateInput(text)
			if err != nil {
				v.Set(nil)
				return parseError("Use a date like 2026-12-24 18:00")
			}
			v.Set(&t)
			return nil
		},
		err: v.Error,
	}
}

// photoField reads the file when the form is submitted.
func photoField(label string, v *form.Value[*model.Photo]) *formField {
	return &formField{
		label:    label,
		input:    newInput("~/Pictures/photo.jpg", ""),
		deferred: true,
		apply: func(text string) error {
			if strings.TrimSpace(text) == "" {
				v.Set(nil)
				return nil
			}
			photo, err := editor.LoadPhoto(strings.TrimSpace(text))
			if err != nil {
				v.Set(nil)
				return err
			}
			v.Set(photo)
			return nil
		},
		err: v.Error,
	}
}

func newLoginForm(ctx context.Context, s *editor.LoginStore) *FormModel {
	return newFormModel(ctx, "Log in", []*formField{
		textField("Email", "you@example.com", s.Email),
		passwordField("Password", s.Password),
	}, s.IsLoading, func(ctx context.Context) tea.Msg {
		if err := s.Submit(ctx); err != nil {
			return formResultMsg{err: err}
		}
		return formResultMsg{info: "Logged in"}
	})
}

func newRegisterForm(ctx context.Context, s *editor.RegisterStore) *FormModel {
	m := newFormModel(ctx, "Create an account", []*formField{
		textField("First name", "", s.FirstName),
		textField("Last name", "", s.LastName),
		textField("Email", "you@example.com", s.Email),
		passwordField("Password (6+ characters)", s.Password),
		photoField("Profile photo (optional)", s.Photo),
	}, s.IsLoading, func(ctx context.Context) tea.Msg {
		res, err := s.Submit(ctx)
		if err != nil {
			return formResultMsg{err: err}
		}
		return formResultMsg{info: "Welcome aboard!", warning: res.Warning}
	})
	return m
}

func newCreateAuctionForm(ctx context.Context, s *editor.CreateAuctionStore) *FormModel {
	return newFormModel(ctx, "New auction", []*formField{
		textField("Title", "", s.Title),
		categoryField(s.Category, s.Categories),
		dateField("Closes", s.EndDate),
		textField("Description", "", s.Description),
		textField("Reserve ($)", "1", s.Reserve),
		photoField("Photo", s.Photo),
	}, s.IsLoading, func(ctx context.Context) tea.Msg {
		res, err := s.Submit(ctx)
		if err != nil {
			return formResultMsg{err: err}
		}
		return formResultMsg{info: "Auction created", warning: res.Warning, openAuctionID: res.AuctionID}
	})
}

func newEditAuctionForm(ctx context.Context, s *editor.AuctionEditStore) *FormModel {
	m := newFormModel(ctx, "Edit auction", []*formField{
		textField("Title", "", s.Title),
		categoryField(s.Category, s.Categories),
		dateField("Closes", s.EndDate),
		textField("Description", "", s.Description),
		textField("Reserve ($)", "", s.Reserve),
	}, s.IsLoading, func(ctx context.Context) tea.Msg {
		if !s.IsEdited() {
			return formResultMsg{info: "Nothing to save"}
		}
		if err := s.Submit(ctx); err != nil {
			return formResultMsg{err: err}
		}
		return formResultMsg{info: "Auction saved"}
	})
	m.intro = "Only the fields you change are sent."
	return m
}

func newPlaceBidForm(ctx context.Context, s *editor.PlaceBidStore, title string) *FormModel {
	amount := textField("Amount ($)", "", s.Amount)
	amount.err = s.Error
	m := newFormModel(ctx, "Bid on "+title, []*formField{amount}, s.IsLoading, func(ctx context.Context) tea.Msg {
		if err := s.Submit(ctx); err != nil {
			return formResultMsg{err: err}
		}
		return formResultMsg{info: "Bid placed"}
	})
	return m
}

func newProfileForm(ctx context.Context, s *editor.ProfileDetailsEditor) *FormModel {
	m := newFormModel(ctx, "Edit profile", []*formField{
		textField("First name", "", s.FirstName),
		textField("Last name", "", s.LastName),
		textField("Email", "", s.Email),
	}, s.IsLoading, func(ctx context.Context) tea.Msg {
		if !s.IsEdited() {
			return formResultMsg{info: "Nothing to save"}
		}
		if err := s.Submit(ctx); err != nil {
			return formResultMsg{err: err}
		}
		return formResultMsg{info: "Profile saved"}
	})
	return m
}

func newPasswordForm(ctx context.Context, s *editor.PasswordEditor) *FormModel {
	return newFormModel(ctx, "Change password", []*formField{
		passwordField("Current password", s.CurrentPassword),
		passwordField("New password (6+ characters)", s.NewPassword),
	}, s.IsLoading, func(ctx context.Context) tea.Msg {
		if err := s.Submit(ctx); err != nil {
			return formResultMsg{err: err}
		}
		return formResultMsg{info: "Password changed"}
	})
}

func newUploadPhotoForm(ctx context.Context, account *store.Account) *FormModel {
	photo := form.NewValue[*model.Photo](nil, form.PhotoRequired)
	return newFormModel(ctx, "Upload profile photo", []*formField{
		photoField("Photo file (PNG, JPEG or GIF)", photo),
	}, account.IsLoading, func(ctx context.Context) tea.Msg {
		if !photo.Validate() {
			return formResultMsg{err: model.ErrValidation}
		}
		if err := account.UploadPhoto(ctx, *photo.Value()); err != nil {
			return formResultMsg{err: err}
		}
		return formResultMsg{info: "Photo updated"}
	})
}
