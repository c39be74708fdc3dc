package bridge

import (
	"context"
	"errors"
	"sync"

	"neoterm/internal/logger"
)

var (
	// ErrBridgeClosed 表示桥已关闭，消息无法送达。
	ErrBridgeClosed = errors.New("bridge closed")
	// ErrBridgeFull 表示队列已满，消息被丢弃。高负载下投递语义是
	// at-most-once：丢弃会上报给调用方并写入日志，绝不伪装成功。
	ErrBridgeFull = errors.New("bridge full")
)

// Kind 标记消息的种类。
type Kind int

const (
	// KindNewLine 表示把文本原样追加为一行。
	KindNewLine Kind = iota
	// KindTaskCompleted 表示任务完成：追加完成行并刷新状态摘要。
	KindTaskCompleted
)

func (k Kind) String() string {
	switch k {
	case KindNewLine:
		return "new_line"
	case KindTaskCompleted:
		return "task_completed"
	default:
		return "unknown"
	}
}

// Message 是后台任务与消费者之间唯一的通信载体。
type Message struct {
	Kind Kind
	Text string
}

// NewLine 构造一条追加行消息。
func NewLine(text string) Message {
	return Message{Kind: KindNewLine, Text: text}
}

// TaskCompleted 构造一条任务完成消息。
func TaskCompleted(text string) Message {
	return Message{Kind: KindTaskCompleted, Text: text}
}

// DefaultCapacity 是桥的默认队列深度。
const DefaultCapacity = 100

// Bridge 是多生产者、单消费者的有界异步通道。
// 发送端可被任意数量的后台任务并发共享；接收端只属于 tick 循环。
// 同一生产者的消息保持发送顺序；不同生产者按通道实际收到的顺序交错。
type Bridge struct {
	ch        chan Message
	done      chan struct{}
	closeOnce sync.Once
	log       *logger.LogEntry
}

// New 创建指定队列深度的桥。
func New(capacity int) *Bridge {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bridge{
		ch:   make(chan Message, capacity),
		done: make(chan struct{}),
		log:  logger.Named("bridge"),
	}
}

// SetLogger 覆盖桥使用的 logger。
func (b *Bridge) SetLogger(entry *logger.LogEntry) {
	if entry == nil {
		return
	}
	b.log = entry
}

// Send 非阻塞投递。桥已关闭返回 ErrBridgeClosed；
// 队列满时丢弃本条消息并返回 ErrBridgeFull。
func (b *Bridge) Send(msg Message) error {
	select {
	case <-b.done:
		return ErrBridgeClosed
	default:
	}
	select {
	case b.ch <- msg:
		return nil
	default:
		b.log.WithField("kind", msg.Kind.String()).Warn("message dropped: bridge full")
		return ErrBridgeFull
	}
}

// SendContext 阻塞投递，直到入队、ctx 取消或桥关闭。
// 需要背压而非丢弃语义的调用方使用它。
func (b *Bridge) SendContext(ctx context.Context, msg Message) error {
	select {
	case <-b.done:
		return ErrBridgeClosed
	default:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return ErrBridgeClosed
	case b.ch <- msg:
		return nil
	}
}

// DrainAll 取走当前排队的全部消息，按 FIFO 返回；无消息时立即返回空。
// 只允许唯一的消费者调用，每个 tick 调用一次也是安全的。
func (b *Bridge) DrainAll() []Message {
	var out []Message
	for {
		select {
		case msg := <-b.ch:
			out = append(out, msg)
		default:
			return out
		}
	}
}

// Pending 返回当前排队的消息数。
func (b *Bridge) Pending() int {
	return len(b.ch)
}

// Close 关闭桥。之后的发送返回 ErrBridgeClosed；fire-and-forget 的
// 后台任务由此自然退出，关闭过程不等待它们。重复调用无害。
func (b *Bridge) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}
