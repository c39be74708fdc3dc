package interp

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"neoterm/internal/bridge"
	"neoterm/internal/console"
	"neoterm/internal/logger"

	"github.com/atotto/clipboard"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
)

// DefaultTaskDelay 是 async-task 在上报完成前的固定等待时长。
const DefaultTaskDelay = 2 * time.Second

// verbs 是解释器识别的全部动词，也是 unknown 提示的模糊匹配候选。
var verbs = []string{
	"help", "clear", "status", "echo", "time", "date",
	"async-task", "log", "scroll-top", "scroll-bottom", "copy",
}

var helpLines = []string{
	"Available commands:",
	"  help, ?         show this help",
	"  clear           wipe the console",
	"  status          print the current status summary",
	"  echo <text>     print <text> verbatim",
	"  time            print the wall-clock time (HH:MM:SS)",
	"  date            print the current date (YYYY-MM-DD)",
	"  async-task      run a slow background task",
	"  log             emit a timestamped log line",
	"  scroll-top      jump to the oldest line",
	"  scroll-bottom   jump to the newest line",
	"  copy            copy the visible lines to the clipboard",
}

// Options 配置解释器。Buffer 与 Bridge 必填，其余均有缺省值。
type Options struct {
	Buffer *console.LineBuffer
	Bridge *bridge.Bridge
	// Status 返回当前状态摘要，供 status 命令回显。
	Status func() string
	// Clock 供 time/date/log 取当前时间，测试时注入假时钟。
	Clock func() time.Time
	// TaskDelay 覆盖 async-task 的等待时长。
	TaskDelay time.Duration
	// WriteClipboard 覆盖剪贴板写入，测试时注入假实现。
	WriteClipboard func(string) error
	Log            *logger.LogEntry
}

// Interpreter 把一行原始输入翻译成缓冲变更或一次后台任务。
// 每次调用都是同步的状态机 Idle → Parse → Dispatch → Idle：
// 自身不阻塞、不重试、不失败，未知输入只是普通的一行诊断输出。
type Interpreter struct {
	buf            *console.LineBuffer
	bridge         *bridge.Bridge
	status         func() string
	clock          func() time.Time
	taskDelay      time.Duration
	writeClipboard func(string) error
	inflight       atomic.Int64
	log            *logger.LogEntry
}

// New 创建解释器并补齐缺省依赖。
func New(opts Options) *Interpreter {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	status := opts.Status
	if status == nil {
		status = func() string { return "" }
	}
	delay := opts.TaskDelay
	if delay <= 0 {
		delay = DefaultTaskDelay
	}
	write := opts.WriteClipboard
	if write == nil {
		write = clipboard.WriteAll
	}
	log := opts.Log
	if log == nil {
		log = logger.Named("interp")
	}
	return &Interpreter{
		buf:            opts.Buffer,
		bridge:         opts.Bridge,
		status:         status,
		clock:          clock,
		taskDelay:      delay,
		writeClipboard: write,
		log:            log,
	}
}

// Execute 处理一行提交的输入。空输入是 no-op。
// 动词大小写不敏感；参数保留原样，仅剥掉动词后的单个分隔空格。
func (in *Interpreter) Execute(raw string) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return
	}
	verb, arg, _ := strings.Cut(input, " ")
	switch strings.ToLower(verb) {
	case "help", "?":
		for _, line := range helpLines {
			in.buf.AddLine(line)
		}
	case "clear":
		in.buf.Clear()
	case "status":
		in.buf.AddLine(in.status())
	case "echo":
		in.buf.AddLine(arg)
	case "time":
		in.buf.AddLine(in.clock().Format("15:04:05"))
	case "date":
		in.buf.AddLine(in.clock().Format("2006-01-02"))
	case "async-task":
		in.startSlowTask()
	case "log":
		in.startLogTask()
	case "scroll-top":
		in.buf.ScrollToTop()
		in.buf.AddLine("Scrolled to top.")
	case "scroll-bottom":
		in.buf.ScrollToBottom()
		in.buf.AddLine("Scrolled to bottom.")
	case "copy":
		in.copyVisible()
	default:
		in.unknown(verb)
	}
}

// InFlight 返回尚未结束的后台任务数，渲染方据此降速空闲 tick。
func (in *Interpreter) InFlight() int {
	return int(in.inflight.Load())
}

// startSlowTask 同步落一条确认行，然后派生一个延迟后上报完成的任务。
func (in *Interpreter) startSlowTask() {
	in.buf.AddLine("[ASYNC] Slow task initiated.")
	in.spawn("slow-task", func(log *logger.LogEntry) {
		time.Sleep(in.taskDelay)
		if err := in.bridge.Send(bridge.TaskCompleted("Task completed successfully.")); err != nil {
			log.Warnf("completion not delivered: %v", err)
		}
	})
}

// startLogTask 派生一个立即上报时间戳日志行的任务。
func (in *Interpreter) startLogTask() {
	in.spawn("log", func(log *logger.LogEntry) {
		line := fmt.Sprintf("[LOG] Sample log entry at %s", in.clock().Format("15:04:05"))
		if err := in.bridge.Send(bridge.NewLine(line)); err != nil {
			log.Warnf("log line not delivered: %v", err)
		}
	})
}

// spawn 启动 fire-and-forget 的后台任务。任务只拿到桥的发送端和
// 自己的日志入口，绝不触碰行缓冲；投递失败也正常退出。
func (in *Interpreter) spawn(name string, fn func(log *logger.LogEntry)) {
	entry := in.log.WithField("task", name).WithField("id", uuid.NewString())
	in.inflight.Add(1)
	go func() {
		defer in.inflight.Add(-1)
		fn(entry)
	}()
}

func (in *Interpreter) copyVisible() {
	lines := in.buf.VisibleLines()
	if err := in.writeClipboard(strings.Join(lines, "\n")); err != nil {
		in.buf.AddLine(fmt.Sprintf("Copy failed: %v", err))
		return
	}
	in.buf.AddLine(fmt.Sprintf("Copied %d lines to clipboard.", len(lines)))
}

func (in *Interpreter) unknown(verb string) {
	in.buf.AddLine(fmt.Sprintf("Unknown command: '%s'. Type 'help' for available commands.", verb))
	if s := suggest(verb); s != "" {
		in.buf.AddLine(fmt.Sprintf("Did you mean '%s'?", s))
	}
}

// suggest 返回与输入最接近的动词；没有足够相近的候选时返回空串。
func suggest(verb string) string {
	matches := fuzzy.Find(strings.ToLower(verb), verbs)
	if len(matches) == 0 {
		return ""
	}
	best := matches[0]
	// 分数为正说明候选里有连续命中；太短的输入不值得提示。
	if best.Score <= 0 || len(verb) < 3 {
		return ""
	}
	return verbs[best.Index]
}
