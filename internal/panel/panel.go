package panel

import (
	"time"

	"neoterm/internal/bridge"
	"neoterm/internal/console"
	"neoterm/internal/interp"
	"neoterm/internal/logger"
)

// InitialStatus 是启动时的状态摘要。
const InitialStatus = "STATUS: System nominal."

// defaultBanner 是启动时预置进缓冲的内容。
var defaultBanner = []string{
	"███╗   ██╗███████╗ ██████╗",
	"████╗  ██║██╔════╝██╔═══██╗",
	"██╔██╗ ██║█████╗  ██║   ██║",
	"██║╚██╗██║██╔══╝  ██║   ██║",
	"██║ ╚████║███████╗╚██████╔╝",
	"╚═╝  ╚═══╝╚══════╝ ╚═════╝ ",
	"",
	"Welcome to Neo-Term. Standby for commands.",
}

// Options 配置面板。零值字段都会落到缺省值。
type Options struct {
	Capacity       int
	ViewportHeight int
	BridgeCapacity int
	TaskDelay      time.Duration
	Clock          func() time.Time
	WriteClipboard func(string) error
	// Banner 覆盖启动内容；nil 用内置横幅，空切片表示不要横幅。
	Banner []string
}

// Panel 是 tick 循环的上下文对象：行缓冲、状态行和桥的接收端都归它
// 独占，外部渲染方只通过只读方法取快照。严禁任何全局状态。
type Panel struct {
	buf    *console.LineBuffer
	bridge *bridge.Bridge
	interp *interp.Interpreter
	status string
	log    *logger.LogEntry
}

// New 组装面板：缓冲、桥、解释器，并写入启动横幅。
func New(opts Options) *Panel {
	p := &Panel{
		buf:    console.NewLineBuffer(opts.Capacity, opts.ViewportHeight),
		bridge: bridge.New(opts.BridgeCapacity),
		status: InitialStatus,
		log:    logger.Named("panel"),
	}
	p.interp = interp.New(interp.Options{
		Buffer:         p.buf,
		Bridge:         p.bridge,
		Status:         func() string { return p.status },
		Clock:          opts.Clock,
		TaskDelay:      opts.TaskDelay,
		WriteClipboard: opts.WriteClipboard,
	})
	banner := opts.Banner
	if banner == nil {
		banner = defaultBanner
	}
	for _, line := range banner {
		p.buf.AddLine(line)
	}
	return p
}

// Tick 由渲染方每个重绘周期调用一次：把桥里排队的全部消息按到达顺序
// 应用到缓冲，返回应用的条数，便于调用方在空闲时降低 tick 频率。
func (p *Panel) Tick() int {
	msgs := p.bridge.DrainAll()
	for _, msg := range msgs {
		switch msg.Kind {
		case bridge.KindTaskCompleted:
			p.status = "STATUS: " + msg.Text
			p.buf.AddLine("[ASYNC] " + msg.Text)
		default:
			p.buf.AddLine(msg.Text)
		}
	}
	return len(msgs)
}

// Submit 接收渲染方提交的一行原始输入并交给解释器。
func (p *Panel) Submit(raw string) {
	p.interp.Execute(raw)
}

// VisibleLines 返回当前视口内容。
func (p *Panel) VisibleLines() []string {
	return p.buf.VisibleLines()
}

// StatusMessage 返回当前状态摘要。
func (p *Panel) StatusMessage() string {
	return p.status
}

// ScrollPosition 返回 (偏移, 总行数, 视口行数)。
func (p *Panel) ScrollPosition() (offset, total, viewportHeight int) {
	return p.buf.ScrollPosition()
}

// Busy 报告是否还有在途任务或未消费的消息。
func (p *Panel) Busy() bool {
	return p.interp.InFlight() > 0 || p.bridge.Pending() > 0
}

// Resize 由渲染方在窗口尺寸变化时上报新的视口行数。
func (p *Panel) Resize(viewportHeight int) {
	p.buf.Resize(viewportHeight)
}

// ScrollUp 向上滚动一行。
func (p *Panel) ScrollUp() { p.buf.ScrollUp() }

// ScrollDown 向下滚动一行。
func (p *Panel) ScrollDown() { p.buf.ScrollDown() }

// ScrollToTop 跳到最旧的一行。
func (p *Panel) ScrollToTop() { p.buf.ScrollToTop() }

// ScrollToBottom 跳到最新的一行。
func (p *Panel) ScrollToBottom() { p.buf.ScrollToBottom() }

// Close 关闭桥。在途任务的投递会失败并自然退出，这里不等待它们。
func (p *Panel) Close() {
	p.bridge.Close()
}
