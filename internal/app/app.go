// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/clientbook/internal/client"
	"github.com/zjrosen/clientbook/internal/config"
	"github.com/zjrosen/clientbook/internal/controller"
	"github.com/zjrosen/clientbook/internal/keys"
	"github.com/zjrosen/clientbook/internal/log"
	"github.com/zjrosen/clientbook/internal/pubsub"
	"github.com/zjrosen/clientbook/internal/store"
	"github.com/zjrosen/clientbook/internal/ui/clientdetails"
	"github.com/zjrosen/clientbook/internal/ui/clientform"
	"github.com/zjrosen/clientbook/internal/ui/clientlist"
	"github.com/zjrosen/clientbook/internal/ui/modal"
	"github.com/zjrosen/clientbook/internal/ui/styles"
	"github.com/zjrosen/clientbook/internal/ui/toaster"
	"github.com/zjrosen/clientbook/internal/watcher"
)

// Invalidator drops cached storage content after an external change.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Options holds the collaborators of the root model.
type Options struct {
	Store  store.Store
	Config config.Config
	// WatchPath is the storage file to watch when auto refresh is on.
	WatchPath string
	// Cache is invalidated before reloading on external changes. Optional.
	Cache Invalidator
}

// loadMsg triggers the initial load.
type loadMsg struct{}

// Model is the root application state.
type Model struct {
	ctx   context.Context
	ctrl  *controller.Controller
	cfg   config.Config
	cache Invalidator

	list    clientlist.Model
	form    clientform.Model
	details clientdetails.Model
	confirm modal.Model
	toaster toaster.Model
	help    help.Model

	showHelp bool
	width    int
	height   int

	watcherHandle   *watcher.Watcher
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.ContinuousListener[string]
}

// New creates the root model. A watcher is started when auto refresh is
// enabled and WatchPath is set; failing to start it only disables refresh.
func New(opts Options) Model {
	cfg := opts.Config
	m := Model{
		ctx: context.Background(),
		ctrl: controller.New(opts.Store, controller.WithValidateOptions(client.ValidateOptions{
			TrimRequired: cfg.Validation.TrimRequired,
		})),
		cfg:     cfg,
		cache:   opts.Cache,
		list:    clientlist.New(cfg.UI.DateFormat),
		details: clientdetails.New(cfg.UI.DateFormat, cfg.UI.MarkdownStyle),
		toaster: toaster.New(),
		help:    help.New(),
	}

	if cfg.AutoRefresh && opts.WatchPath != "" {
		w, err := watcher.New(watcher.DefaultConfig(opts.WatchPath))
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			log.ErrorErr(log.CatWatcher, "Auto refresh disabled", err, "path", opts.WatchPath)
			if w != nil {
				_ = w.Stop()
			}
		} else {
			ctx, cancel := context.WithCancel(context.Background())
			m.watcherHandle = w
			m.watcherCancel = cancel
			m.watcherListener = pubsub.NewContinuousListener(ctx, w.Broker())
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	load := func() tea.Msg { return loadMsg{} }
	if m.watcherListener == nil {
		return load
	}
	return tea.Batch(load, m.watcherListener.Listen())
}

// Controller exposes the page controller.
func (m Model) Controller() *controller.Controller {
	return m.ctrl
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list = m.list.SetSize(msg.Width, m.listHeight())
		m.form = m.form.SetSize(msg.Width, msg.Height)
		m.details = m.details.SetSize(msg.Width, msg.Height)
		m.confirm.SetSize(msg.Width, msg.Height)
		return m, nil

	case loadMsg:
		_ = m.ctrl.Load(m.ctx)
		return m.synced()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.ctrl.Mode() == controller.ModeIdle && !m.list.Searching() {
			switch {
			case key.Matches(msg, keys.Global.Quit):
				return m, tea.Quit
			case key.Matches(msg, keys.Global.Help):
				m.showHelp = !m.showHelp
				m.help.ShowAll = m.showHelp
				m.list = m.list.SetSize(m.width, m.listHeight())
				return m, nil
			}
		}

	case clientlist.SearchMsg:
		m.ctrl.SetSearch(msg.Term)
		return m.synced()

	case clientlist.NewMsg:
		m.ctrl.OpenCreate()
		m.form = clientform.New(client.Fields{}, false).SetSize(m.width, m.height)
		return m, m.form.Init()

	case clientlist.EditMsg:
		return m.openEdit(msg.Client)

	case clientdetails.EditMsg:
		return m.openEdit(msg.Client)

	case clientlist.ViewMsg:
		m.ctrl.OpenDetail(msg.Client)
		m.details = m.details.SetSize(m.width, m.height).SetClient(msg.Client)
		return m, nil

	case clientdetails.CloseMsg:
		m.ctrl.CloseDetail()
		return m, nil

	case clientlist.DeleteMsg:
		return m.requestDelete(msg.ID)

	case clientdetails.DeleteMsg:
		return m.requestDelete(msg.ID)

	case clientform.SubmitMsg:
		if !m.ctrl.Submit(m.ctx, msg.Fields) && m.ctrl.Mode() == controller.ModeForm {
			m.form = m.form.SetErrors(m.ctrl.FormErrors())
		}
		return m.synced()

	case clientform.CancelMsg:
		m.ctrl.CancelForm()
		return m, nil

	case modal.ConfirmMsg:
		m.ctrl.ConfirmDelete(m.ctx)
		return m.synced()

	case modal.CancelMsg:
		m.ctrl.CancelDelete()
		return m, nil

	case toaster.DismissMsg:
		if m.ctrl.Dismiss(msg.Seq) {
			m.toaster = m.toaster.Hide()
		}
		return m, nil

	case pubsub.Event[string]:
		return m.handleStorageEvent(msg)
	}

	return m.delegate(msg)
}

// delegate routes input to the component on top.
func (m Model) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.ctrl.Mode() {
	case controller.ModeForm:
		m.form, cmd = m.form.Update(msg)
	case controller.ModeDetail:
		m.details, cmd = m.details.Update(msg)
	case controller.ModeDeleteConfirm:
		m.confirm, cmd = m.confirm.Update(msg)
	default:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m Model) openEdit(c client.Client) (tea.Model, tea.Cmd) {
	m.ctrl.OpenEdit(c)
	m.form = clientform.New(c.Fields(), true).SetSize(m.width, m.height)
	return m, m.form.Init()
}

func (m Model) requestDelete(id string) (tea.Model, tea.Cmd) {
	name := "this client"
	for _, c := range m.ctrl.Clients() {
		if c.ID == id {
			name = c.TradeName
			break
		}
	}
	m.ctrl.RequestDelete(id)
	m.confirm = modal.New(modal.Config{
		Title:          "Delete client",
		Message:        fmt.Sprintf("Delete %s? This cannot be undone.", name),
		ConfirmLabel:   "Delete",
		ConfirmVariant: modal.ButtonDanger,
	})
	m.confirm.SetSize(m.width, m.height)
	return m, nil
}

func (m Model) handleStorageEvent(event pubsub.Event[string]) (tea.Model, tea.Cmd) {
	log.Debug(log.CatWatcher, "Storage changed on disk", "type", event.Type, "path", event.Payload)
	if m.cache != nil {
		m.cache.Invalidate(m.ctx)
	}
	_ = m.ctrl.Refresh(m.ctx)
	if c, ok := m.ctrl.Selected(); ok && m.ctrl.Mode() == controller.ModeDetail {
		m.details = m.details.SetClient(c)
	}

	next, cmd := m.synced()
	if m.watcherListener != nil {
		cmd = tea.Batch(cmd, m.watcherListener.Listen())
	}
	return next, cmd
}

// synced pushes controller state into the list and the toaster, scheduling
// the auto-hide of a new notification.
func (m Model) synced() (tea.Model, tea.Cmd) {
	m.list = m.list.SetClients(m.ctrl.Filtered(), len(m.ctrl.Clients()))

	n := m.ctrl.Notification()
	if !n.Visible || (m.toaster.Visible() && m.toaster.Seq() == n.Seq) {
		return m, nil
	}
	style := toaster.StyleSuccess
	if n.Kind == controller.NotifyError {
		style = toaster.StyleError
	}
	m.toaster = m.toaster.Show(n.Message, style, n.Seq)
	return m, toaster.ScheduleDismiss(m.cfg.UI.NotificationTimeout, n.Seq)
}

// listHeight is the screen minus the title line and the help footer.
func (m Model) listHeight() int {
	footer := lipgloss.Height(m.help.View(m.helpKeys()))
	return max(m.height-1-footer, 1)
}

// View implements tea.Model.
func (m Model) View() string {
	header := styles.TitleStyle.Render(" clientbook") + styles.MutedStyle.Render("  client registry")
	body := m.list.View()

	footer := strings.Split(styles.StatusBarStyle.Render(m.help.View(m.helpKeys())), "\n")

	lines := append([]string{header}, strings.Split(body, "\n")...)
	for len(lines) < m.height-len(footer) {
		lines = append(lines, "")
	}
	view := strings.Join(append(lines, footer...), "\n")

	switch m.ctrl.Mode() {
	case controller.ModeForm:
		view = m.form.Overlay(view)
	case controller.ModeDetail:
		view = m.details.Overlay(view)
	case controller.ModeDeleteConfirm:
		view = m.confirm.Overlay(view)
	}

	view = m.toaster.Overlay(view, m.width, m.height)
	return zone.Scan(view)
}

func (m Model) helpKeys() help.KeyMap {
	switch m.ctrl.Mode() {
	case controller.ModeForm:
		return keys.Form
	case controller.ModeDetail:
		return keys.Detail
	}
	return keys.List
}

// Close stops the watcher.
func (m *Model) Close() error {
	if m.watcherCancel != nil {
		m.watcherCancel()
	}
	if m.watcherHandle != nil {
		return m.watcherHandle.Stop()
	}
	return nil
}
