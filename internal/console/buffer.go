package console

const (
	// DefaultCapacity 是行缓冲的默认容量上限。
	DefaultCapacity = 1000
	// DefaultViewportHeight 是渲染方尚未上报尺寸时的视口行数。
	DefaultViewportHeight = 12
)

// LineBuffer 维护控制台的有界行日志与独立的滚动视口。
// 它只属于单一消费者（panel 的 tick 循环）；后台任务永远不会直接持有它，
// 因此这里不需要任何锁。
type LineBuffer struct {
	lines          []string
	capacity       int
	viewportHeight int
	scrollOffset   int
}

// NewLineBuffer 创建固定容量的行缓冲。容量在缓冲生命周期内不再变化。
func NewLineBuffer(capacity, viewportHeight int) *LineBuffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if viewportHeight <= 0 {
		viewportHeight = DefaultViewportHeight
	}
	return &LineBuffer{
		lines:          make([]string, 0, capacity),
		capacity:       capacity,
		viewportHeight: viewportHeight,
	}
}

// AddLine 追加一行；缓冲已满时先淘汰最旧的一行（FIFO）。
//
// 滚动策略：仅当追加前视口已贴底时才跟随新的底部；用户向上翻阅时保持
// 所见内容不动——若此次追加触发了淘汰，偏移同步左移一行。
func (b *LineBuffer) AddLine(text string) {
	atBottom := b.IsAtBottom()
	evicted := false
	if len(b.lines) >= b.capacity {
		copy(b.lines, b.lines[1:])
		b.lines = b.lines[:len(b.lines)-1]
		evicted = true
	}
	b.lines = append(b.lines, text)
	if atBottom {
		b.scrollOffset = b.maxScroll()
		return
	}
	if evicted && b.scrollOffset > 0 {
		b.scrollOffset--
	}
}

// Clear 清空全部内容并把偏移归零；容量保持不变。
func (b *LineBuffer) Clear() {
	b.lines = b.lines[:0]
	b.scrollOffset = 0
}

// ScrollUp 向上滚动一行，到顶后保持不动。
func (b *LineBuffer) ScrollUp() {
	if b.scrollOffset > 0 {
		b.scrollOffset--
	}
}

// ScrollDown 向下滚动一行，到底后保持不动。
func (b *LineBuffer) ScrollDown() {
	if b.scrollOffset < b.maxScroll() {
		b.scrollOffset++
	}
}

// ScrollToTop 跳到最旧的一行。
func (b *LineBuffer) ScrollToTop() {
	b.scrollOffset = 0
}

// ScrollToBottom 跳到最新的一行。
func (b *LineBuffer) ScrollToBottom() {
	b.scrollOffset = b.maxScroll()
}

// IsAtBottom 报告视口是否贴底。空缓冲视为贴底。
func (b *LineBuffer) IsAtBottom() bool {
	return b.scrollOffset >= b.maxScroll()
}

// VisibleLines 返回当前视口内的行（副本）。偏移越过末尾时返回空切片而非报错。
func (b *LineBuffer) VisibleLines() []string {
	if b.scrollOffset >= len(b.lines) {
		return nil
	}
	end := b.scrollOffset + b.viewportHeight
	if end > len(b.lines) {
		end = len(b.lines)
	}
	return append([]string(nil), b.lines[b.scrollOffset:end]...)
}

// Resize 更新视口行数（由渲染方在窗口变化时上报）。
// 调整前贴底则保持贴底，否则只做夹取。
func (b *LineBuffer) Resize(viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	atBottom := b.IsAtBottom()
	b.viewportHeight = viewportHeight
	if atBottom || b.scrollOffset > b.maxScroll() {
		b.scrollOffset = b.maxScroll()
	}
}

// ScrollPosition 返回 (偏移, 总行数, 视口行数)，供渲染方绘制位置指示。
func (b *LineBuffer) ScrollPosition() (offset, total, viewportHeight int) {
	return b.scrollOffset, len(b.lines), b.viewportHeight
}

// Len 返回当前行数。
func (b *LineBuffer) Len() int {
	return len(b.lines)
}

// Capacity 返回构造时设定的容量上限。
func (b *LineBuffer) Capacity() int {
	return b.capacity
}

func (b *LineBuffer) maxScroll() int {
	if n := len(b.lines) - b.viewportHeight; n > 0 {
		return n
	}
	return 0
}
