package tui

import (
	"strings"
	"time"

	"neoterm/internal/panel"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options 配置 TUI。Panel 必填。
type Options struct {
	Panel  *panel.Panel
	Accent string
	// ActiveTick 是有任务在途或刚刚有消息落地时的重绘间隔；
	// IdleTick 是完全空闲时的间隔，避免无谓地烧 CPU。
	ActiveTick time.Duration
	IdleTick   time.Duration
}

type tickMsg time.Time

// Model 是渲染协作方：每个 tick 先让 panel 排空桥，再取快照绘制。
// 它从不直接改动行缓冲内容，只调用 panel 暴露的滚动与提交入口。
type Model struct {
	panel      *panel.Panel
	input      textarea.Model
	spin       spinner.Model
	styles     styles
	width      int
	height     int
	busy       bool
	activeTick time.Duration
	idleTick   time.Duration
}

// New 构造 TUI 模型。
func New(opts Options) *Model {
	ti := textarea.New()
	ti.Placeholder = "Type a command… (help)"
	ti.Prompt = "> "
	ti.CharLimit = 0
	ti.SetWidth(80)
	ti.SetHeight(1) // 单行命令输入
	ti.ShowLineNumbers = false
	ti.Focus()

	st := newStyles(opts.Accent)
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = st.accent

	activeTick := opts.ActiveTick
	if activeTick <= 0 {
		activeTick = 50 * time.Millisecond
	}
	idleTick := opts.IdleTick
	if idleTick <= 0 {
		idleTick = 250 * time.Millisecond
	}

	return &Model{
		panel:      opts.Panel,
		input:      ti,
		spin:       spin,
		styles:     st,
		width:      80,
		height:     24,
		activeTick: activeTick,
		idleTick:   idleTick,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick, scheduleTick(m.idleTick))
}

func scheduleTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tickMsg:
		applied := m.panel.Tick()
		m.busy = m.panel.Busy()
		next := m.idleTick
		if applied > 0 || m.busy {
			next = m.activeTick
		}
		cmds = append(cmds, scheduleTick(next))
		return m, tea.Batch(cmds...)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if cmd, handled := m.handleScrollKeys(msg); handled {
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			input := m.input.Value()
			m.input.Reset()
			m.panel.Submit(input)
			m.busy = m.panel.Busy()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleScrollKeys(msg tea.KeyMsg) (tea.Cmd, bool) {
	_, _, height := m.panel.ScrollPosition()
	switch msg.Type {
	case tea.KeyPgUp:
		for i := 0; i < height; i++ {
			m.panel.ScrollUp()
		}
		return nil, true
	case tea.KeyPgDown:
		for i := 0; i < height; i++ {
			m.panel.ScrollDown()
		}
		return nil, true
	case tea.KeyHome:
		m.panel.ScrollToTop()
		return nil, true
	case tea.KeyEnd:
		m.panel.ScrollToBottom()
		return nil, true
	case tea.KeyUp:
		m.panel.ScrollUp()
		return nil, true
	case tea.KeyDown:
		m.panel.ScrollDown()
		return nil, true
	}
	return nil, false
}

// resize 把窗口尺寸换算成控制台视口行数并上报给 panel。
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	// 标题 1 + 控制台边框 2 + 滚动指示 1 + 输入框 3 + 状态 1 + 提示 1
	content := height - 9
	if content < 3 {
		content = 3
	}
	m.panel.Resize(content)
	inputWidth := width - 4
	if inputWidth < 20 {
		inputWidth = 20
	}
	m.input.SetWidth(inputWidth)
}

func (m *Model) View() string {
	offset, total, height := m.panel.ScrollPosition()
	innerWidth := m.width - 4 // pane 边框与留白
	if innerWidth < 20 {
		innerWidth = 20
	}

	body := make([]string, 0, height)
	for _, line := range m.panel.VisibleLines() {
		body = append(body, truncateLine(line, innerWidth))
	}
	for len(body) < height {
		body = append(body, "")
	}

	title := m.styles.title.Render("SYSTEM CONSOLE")
	consolePane := m.styles.pane.Width(m.width - 2).Render(strings.Join(body, "\n"))
	scroll := m.styles.faint.Render(renderScrollStatus(offset, total, height, innerWidth))
	composer := m.styles.pane.Width(m.width - 2).Render(m.input.View())

	status := m.panel.StatusMessage()
	if m.busy {
		status = status + " " + m.spin.View() + "working"
	}
	statusLine := m.styles.status.Render(truncateLine(status, innerWidth))
	hints := m.styles.faint.Render("Enter run • ↑/↓ PgUp/PgDn scroll • Home/End jump • Ctrl+C exit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title, consolePane, scroll, composer, statusLine, hints)
}
