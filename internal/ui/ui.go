package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/recon/internal/formatter"
	"github.com/desertthunder/recon/internal/models"
)

// DefaultPageSize is the number of clusters loaded per refresh.
const DefaultPageSize = 200

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ClusterListView ViewState = iota
	ClusterDetailView
	IdentifyView
	IdentifyResultView
)

// Source is what the browser reads clusters from and submits identities to.
type Source interface {
	Clusters(ctx context.Context, limit, offset int) ([]models.Cluster, error)
	Reconcile(ctx context.Context, identity models.Identity) (*models.ClusterView, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	source   Source
	pageSize int
	width    int
	height   int
	list     list.Model
	clusters []models.Cluster
	selected *models.Cluster
	inputs   []textinput.Model
	focus    int
	result   *models.ClusterView
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model reading from source.
func NewModel(ctx context.Context, source Source) *Model {
	email := textinput.New()
	email.Placeholder = "email"
	email.Prompt = "Email: "
	phone := textinput.New()
	phone.Placeholder = "phone number"
	phone.Prompt = "Phone: "

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Identity Clusters"

	return &Model{
		ctx:      ctx,
		view:     ClusterListView,
		source:   source,
		pageSize: DefaultPageSize,
		list:     l,
		inputs:   []textinput.Model{email, phone},
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by fetching the first page of clusters.
func (m *Model) Init() tea.Cmd {
	return m.fetchClusters()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ClusterListView:
			return m.handleListKeys(msg)
		case ClusterDetailView:
			return m.handleDetailKeys(msg)
		case IdentifyView:
			return m.handleIdentifyKeys(msg)
		case IdentifyResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	if m.view == ClusterListView {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgClustersFetched:
		data := msg.data.(clustersFetched)
		if data.err != nil {
			m.err = data.err
			return m, tea.Quit
		}
		m.err = nil
		m.clusters = data.clusters
		items := make([]list.Item, len(data.clusters))
		for i, c := range data.clusters {
			items[i] = clusterItem{cluster: c}
		}
		return m, m.list.SetItems(items)

	case MsgIdentified:
		data := msg.data.(identified)
		m.result = data.view
		m.err = data.err
		m.view = IdentifyResultView
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != IdentifyResultView {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Error: %v", m.err)), styles.help.Render("Press q to quit"))
	}

	switch m.view {
	case ClusterListView:
		return m.renderList()
	case ClusterDetailView:
		return m.renderDetail()
	case IdentifyView:
		return m.renderIdentify()
	case IdentifyResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if item, ok := m.list.SelectedItem().(clusterItem); ok {
			cluster := item.cluster
			m.selected = &cluster
			m.view = ClusterDetailView
		}
		return m, nil
	case "i":
		return m, m.openIdentify()
	case "r":
		return m, m.fetchClusters()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.selected = nil
		m.view = ClusterListView
	}
	return m, nil
}

func (m *Model) handleIdentifyKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ClusterListView
		return m, nil
	case "tab", "shift+tab", "up", "down":
		return m, m.focusInput((m.focus + 1) % len(m.inputs))
	case "enter":
		identity := models.NewIdentity(m.inputs[0].Value(), m.inputs[1].Value())
		return m, m.identify(identity)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "enter":
		m.result = nil
		m.err = nil
		m.view = ClusterListView
		return m, m.fetchClusters()
	}
	return m, nil
}

func (m *Model) openIdentify() tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.view = IdentifyView
	return m.focusInput(0)
}

func (m *Model) focusInput(i int) tea.Cmd {
	m.focus = i
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	return m.inputs[i].Focus()
}

func (m *Model) fetchClusters() tea.Cmd {
	return func() tea.Msg {
		clusters, err := m.source.Clusters(m.ctx, m.pageSize, 0)
		return clustersFetchedMsg(clusters, err)
	}
}

func (m *Model) identify(identity models.Identity) tea.Cmd {
	return func() tea.Msg {
		view, err := m.source.Reconcile(m.ctx, identity)
		return identifiedMsg(view, err)
	}
}

func (m *Model) renderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.identify, m.keys.refresh, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.list.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Cluster %d", m.selected.View.PrimaryContactID)))
	b.WriteString("\n")
	b.Write(formatter.FormatView(m.selected.View))
	b.WriteString("\n")
	b.WriteString(styles.label.Render(fmt.Sprintf("%-6s %-30s %-16s %-10s %s", "ID", "EMAIL", "PHONE", "ROLE", "CREATED")))
	b.WriteString("\n")
	for _, c := range m.selected.Contacts {
		b.WriteString(fmt.Sprintf("%-6d %-30s %-16s %s %s\n",
			c.ID, c.Email.V, c.PhoneNumber.V, styles.precedence(c.LinkPrecedence), c.CreatedAt.Local().Format(time.DateTime)))
	}

	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderIdentify() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Identify Contact"))
	b.WriteString("\n")
	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	submit := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	helpKeys := []key.Binding{submit, m.keys.next, m.keys.back}
	return fmt.Sprintf("%s\n%s", b.String(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Identify failed: %v", m.err)), helpView)
	}
	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	title := styles.title.Render("Consolidated Contact")
	return fmt.Sprintf("%s\n%s\n%s", title, formatter.FormatView(*m.result), helpView)
}
