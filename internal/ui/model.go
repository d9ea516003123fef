package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"humblesync/internal/downloads"
	"humblesync/internal/humblecli"
	"humblesync/internal/library"
)

// view represents the current active view.
type view int

const (
	viewBundles view = iota
	viewDetail
)

const defaultNoticeTTL = 5 * time.Second

// notice is one transient message in the notice area.
type notice struct {
	id       int
	text     string
	severity downloads.Severity
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	Manager      *library.Manager
	Queue        *downloads.Queue
	Orchestrator *downloads.Orchestrator
	NoticeTTL    time.Duration
	Theme        Theme
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx          context.Context
	manager      *library.Manager
	queue        *downloads.Queue
	orchestrator *downloads.Orchestrator
	noticeTTL    time.Duration

	keys   keyMap
	styles Styles

	currentView view
	width       int
	height      int
	ready       bool

	spin    spinner.Model
	loading bool

	bundles        []humblecli.Bundle
	selectedBundle int

	contents     *library.BundleContents
	items        []*downloads.ItemState
	selectedItem int

	notices  []notice
	noticeID int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	noticeTTL := opts.NoticeTTL
	if noticeTTL <= 0 {
		noticeTTL = defaultNoticeTTL
	}
	theme := opts.Theme
	if theme.Name == "" {
		theme = DefaultTheme()
	}
	styles := theme.Styles()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.InfoText

	return Model{
		ctx:          ctx,
		manager:      opts.Manager,
		queue:        opts.Queue,
		orchestrator: opts.Orchestrator,
		noticeTTL:    noticeTTL,
		keys:         defaultKeyMap(),
		styles:       styles,
		currentView:  viewBundles,
		spin:         spin,
		loading:      true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.spin.Tick,
		loadBundlesCmd(m.ctx, m.manager),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case bundlesLoadedMsg:
		m.loading = false
		m.bundles = msg.bundles
		if m.selectedBundle >= len(m.bundles) {
			m.selectedBundle = 0
		}
		return m, nil

	case bundlesErrMsg:
		m.loading = false
		return m.pushNotice(fmt.Sprintf("failed to load bundles: %v", msg.err), downloads.SeverityError)

	case contentsLoadedMsg:
		m.loading = false
		m.currentView = viewDetail
		m.contents = msg.contents
		m.items = buildItemStates(msg.contents)
		m.selectedItem = 0
		return m, nil

	case contentsErrMsg:
		m.loading = false
		return m.pushNotice(fmt.Sprintf("failed to load bundle %s: %v", msg.bundleKey, msg.err), downloads.SeverityError)

	case downloadChangedMsg:
		// Worker state lives in the queue and item states; receiving the
		// message is enough to trigger a redraw.
		return m, nil

	case noticeMsg:
		return m.pushNotice(msg.text, msg.severity)

	case noticeExpiredMsg:
		for i, n := range m.notices {
			if n.id == msg.id {
				m.notices = append(m.notices[:i], m.notices[i+1:]...)
				break
			}
		}
		return m, nil

	case removeItemMsg:
		for i, item := range m.items {
			if item == msg.item {
				m.items = append(m.items[:i], m.items[i+1:]...)
				if m.selectedItem >= len(m.items) && m.selectedItem > 0 {
					m.selectedItem--
				}
				break
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if m.currentView == viewDetail {
			// Active downloads continue; only the view changes.
			m.currentView = viewBundles
			m.contents = nil
			m.items = nil
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.currentView == viewBundles && !m.loading {
			m.loading = true
			return m, tea.Batch(m.spin.Tick, loadBundlesCmd(m.ctx, m.manager))
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevFormat):
		if item := m.currentItem(); item != nil {
			item.CycleFormat(-1)
		}
		return m, nil

	case key.Matches(msg, m.keys.NextFormat):
		if item := m.currentItem(); item != nil {
			item.CycleFormat(1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Download):
		return m.handleActivate()
	}

	return m, nil
}

func (m Model) handleActivate() (tea.Model, tea.Cmd) {
	switch m.currentView {
	case viewBundles:
		if m.loading || len(m.bundles) == 0 {
			return m, nil
		}
		bundle := m.bundles[m.selectedBundle]
		m.loading = true
		return m, tea.Batch(m.spin.Tick, loadContentsCmd(m.ctx, m.manager, bundle.Key))

	case viewDetail:
		item := m.currentItem()
		if item == nil || m.contents == nil {
			return m, nil
		}
		format := item.Selected()
		if format == "" {
			return m, nil
		}
		if item.IsCompleted(format) {
			return m.pushNotice(fmt.Sprintf("%s (%s) already downloaded", item.Name, format), downloads.SeverityInfo)
		}
		req := m.manager.NewRequest(m.contents.Key, item.Number, format)
		if !m.orchestrator.Submit(m.ctx, req, item) {
			return m.pushNotice(fmt.Sprintf("%s (%s) is already in the queue", item.Name, format), downloads.SeverityInfo)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) moveSelection(step int) {
	switch m.currentView {
	case viewBundles:
		m.selectedBundle = clamp(m.selectedBundle+step, len(m.bundles))
	case viewDetail:
		m.selectedItem = clamp(m.selectedItem+step, len(m.items))
	}
}

func (m Model) currentItem() *downloads.ItemState {
	if m.currentView != viewDetail || m.selectedItem >= len(m.items) {
		return nil
	}
	return m.items[m.selectedItem]
}

func (m Model) pushNotice(text string, severity downloads.Severity) (tea.Model, tea.Cmd) {
	m.noticeID++
	id := m.noticeID
	m.notices = append(m.notices, notice{id: id, text: text, severity: severity})
	return m, expireNoticeCmd(id, m.noticeTTL)
}

func buildItemStates(contents *library.BundleContents) []*downloads.ItemState {
	items := make([]*downloads.ItemState, 0, len(contents.Details.Items))
	for _, item := range contents.Details.Items {
		items = append(items, downloads.NewItemState(
			item.Number,
			item.Name,
			item.Size,
			item.Formats,
			contents.CompletedFormats(item),
		))
	}
	return items
}

func clamp(value, length int) int {
	if length == 0 {
		return 0
	}
	if value < 0 {
		return 0
	}
	if value >= length {
		return length - 1
	}
	return value
}

func loadBundlesCmd(ctx context.Context, manager *library.Manager) tea.Cmd {
	return func() tea.Msg {
		bundles, err := manager.Bundles(ctx)
		if err != nil {
			return bundlesErrMsg{err: err}
		}
		return bundlesLoadedMsg{bundles: bundles}
	}
}

func loadContentsCmd(ctx context.Context, manager *library.Manager, bundleKey string) tea.Cmd {
	return func() tea.Msg {
		contents, err := manager.Contents(ctx, bundleKey)
		if err != nil {
			return contentsErrMsg{bundleKey: bundleKey, err: err}
		}
		return contentsLoadedMsg{contents: contents}
	}
}

func expireNoticeCmd(id int, ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}
