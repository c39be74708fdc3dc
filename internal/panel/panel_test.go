package panel

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"neoterm/internal/bridge"
)

func newTestPanel() *Panel {
	return New(Options{
		Capacity:       50,
		ViewportHeight: 50,
		TaskDelay:      5 * time.Millisecond,
		Banner:         []string{},
		Clock: func() time.Time {
			return time.Date(2025, 6, 7, 13, 2, 3, 0, time.UTC)
		},
		WriteClipboard: func(string) error { return nil },
	})
}

func waitBusy(t *testing.T, p *Panel, busy bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for p.Busy() != busy {
		if time.Now().After(deadline) {
			t.Fatalf("panel busy state never became %v", busy)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestTickDrainsBridgeIntoBuffer(t *testing.T) {
	p := newTestPanel()
	defer p.Close()

	for i := 0; i < 3; i++ {
		if err := p.bridge.Send(bridge.NewLine(fmt.Sprintf("bg-%d", i))); err != nil {
			t.Fatalf("send: %v", err)
		}
	}
	if n := p.Tick(); n != 3 {
		t.Fatalf("expected 3 applied messages, got %d", n)
	}
	want := []string{"bg-0", "bg-1", "bg-2"}
	if got := p.VisibleLines(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if n := p.Tick(); n != 0 {
		t.Fatalf("idle tick must apply nothing, got %d", n)
	}
}

func TestTaskCompletedUpdatesStatusAndBuffer(t *testing.T) {
	p := newTestPanel()
	defer p.Close()

	if got := p.StatusMessage(); got != InitialStatus {
		t.Fatalf("unexpected initial status: %q", got)
	}
	if err := p.bridge.Send(bridge.TaskCompleted("Task completed successfully.")); err != nil {
		t.Fatalf("send: %v", err)
	}
	p.Tick()
	if got := p.StatusMessage(); got != "STATUS: Task completed successfully." {
		t.Fatalf("status not updated: %q", got)
	}
	lines := p.VisibleLines()
	if lines[len(lines)-1] != "[ASYNC] Task completed successfully." {
		t.Fatalf("completion line missing, got %v", lines)
	}
}

func TestSlowTaskEndToEnd(t *testing.T) {
	p := newTestPanel()
	defer p.Close()

	p.Submit("async-task")
	lines := p.VisibleLines()
	if lines[len(lines)-1] != "[ASYNC] Slow task initiated." {
		t.Fatalf("missing ack line, got %v", lines)
	}
	if !p.Busy() {
		t.Fatal("panel should be busy while the task runs")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if n := p.Tick(); n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("completion never arrived")
		}
		time.Sleep(time.Millisecond)
	}
	if got := p.StatusMessage(); got != "STATUS: Task completed successfully." {
		t.Fatalf("status after completion: %q", got)
	}
	waitBusy(t, p, false)
}

func TestPerTaskOrderingSurvivesInterleaving(t *testing.T) {
	p := newTestPanel()
	defer p.Close()

	done := make(chan struct{}, 2)
	for _, name := range []string{"t1", "t2"} {
		go func(name string) {
			_ = p.bridge.Send(bridge.NewLine(name + ":start"))
			time.Sleep(2 * time.Millisecond)
			_ = p.bridge.Send(bridge.TaskCompleted(name + ":done"))
			done <- struct{}{}
		}(name)
	}
	<-done
	<-done
	p.Tick()

	index := map[string]int{}
	for i, line := range p.VisibleLines() {
		index[line] = i
	}
	for _, name := range []string{"t1", "t2"} {
		start, okS := index[name+":start"]
		end, okE := index["[ASYNC] "+name+":done"]
		if !okS || !okE {
			t.Fatalf("missing lines for %s: %v", name, p.VisibleLines())
		}
		if start > end {
			t.Fatalf("per-task order violated for %s: start@%d done@%d", name, start, end)
		}
	}
}

func TestDefaultBannerAndStatus(t *testing.T) {
	p := New(Options{Capacity: 50, ViewportHeight: 50})
	defer p.Close()

	lines := p.VisibleLines()
	if len(lines) != len(defaultBanner) {
		t.Fatalf("expected %d banner lines, got %d", len(defaultBanner), len(lines))
	}
	if lines[len(lines)-1] != "Welcome to Neo-Term. Standby for commands." {
		t.Fatalf("unexpected banner tail: %q", lines[len(lines)-1])
	}
	p.Submit("status")
	got := p.VisibleLines()
	if got[len(got)-1] != InitialStatus {
		t.Fatalf("status line mismatch: %q", got[len(got)-1])
	}
}

func TestSubmitRoutesToInterpreter(t *testing.T) {
	p := newTestPanel()
	defer p.Close()

	p.Submit("echo routed")
	lines := p.VisibleLines()
	if lines[len(lines)-1] != "routed" {
		t.Fatalf("expected echoed line, got %v", lines)
	}
	p.Submit("clear")
	if len(p.VisibleLines()) != 0 {
		t.Fatalf("expected cleared buffer, got %v", p.VisibleLines())
	}
}
