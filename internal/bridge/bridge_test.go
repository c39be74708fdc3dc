package bridge

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSendDrainFIFO(t *testing.T) {
	b := New(8)
	defer b.Close()

	for i := 0; i < 5; i++ {
		if err := b.Send(NewLine(fmt.Sprintf("l%d", i))); err != nil {
			t.Fatalf("send l%d: %v", i, err)
		}
	}
	msgs := b.DrainAll()
	if len(msgs) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(msgs))
	}
	for i, msg := range msgs {
		if want := fmt.Sprintf("l%d", i); msg.Text != want {
			t.Fatalf("message %d out of order: got %q, want %q", i, msg.Text, want)
		}
	}
}

func TestDrainAllIdempotentWhenEmpty(t *testing.T) {
	b := New(4)
	defer b.Close()

	if err := b.Send(NewLine("once")); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := b.DrainAll(); len(got) != 1 {
		t.Fatalf("first drain expected 1 message, got %d", len(got))
	}
	if got := b.DrainAll(); len(got) != 0 {
		t.Fatalf("second drain must be empty, got %v", got)
	}
	if b.Pending() != 0 {
		t.Fatalf("expected empty queue, pending=%d", b.Pending())
	}
}

func TestSendFullReportsDrop(t *testing.T) {
	b := New(2)
	defer b.Close()

	if err := b.Send(NewLine("a")); err != nil {
		t.Fatalf("send a: %v", err)
	}
	if err := b.Send(NewLine("b")); err != nil {
		t.Fatalf("send b: %v", err)
	}
	if err := b.Send(NewLine("c")); !errors.Is(err, ErrBridgeFull) {
		t.Fatalf("expected ErrBridgeFull, got %v", err)
	}
	// 被丢弃的消息不得出现在后续 drain 里。
	msgs := b.DrainAll()
	if len(msgs) != 2 || msgs[0].Text != "a" || msgs[1].Text != "b" {
		t.Fatalf("unexpected surviving messages: %v", msgs)
	}
}

func TestSendAfterCloseFailsHarmlessly(t *testing.T) {
	b := New(2)
	b.Close()
	b.Close() // 重复关闭无害

	if err := b.Send(NewLine("late")); !errors.Is(err, ErrBridgeClosed) {
		t.Fatalf("expected ErrBridgeClosed, got %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := b.SendContext(ctx, NewLine("late")); !errors.Is(err, ErrBridgeClosed) {
		t.Fatalf("expected ErrBridgeClosed from SendContext, got %v", err)
	}
}

func TestSendContextRespectsCancellation(t *testing.T) {
	b := New(1)
	defer b.Close()

	if err := b.Send(NewLine("fill")); err != nil {
		t.Fatalf("send: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := b.SendContext(ctx, NewLine("blocked")); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestPerProducerOrderingAcrossConcurrentTasks(t *testing.T) {
	b := New(64)
	defer b.Close()

	const perTask = 10
	var wg sync.WaitGroup
	for _, producer := range []string{"p1", "p2"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := 0; i < perTask; i++ {
				if err := b.Send(NewLine(fmt.Sprintf("%s-%d", name, i))); err != nil {
					t.Errorf("%s send %d: %v", name, i, err)
					return
				}
			}
		}(producer)
	}
	wg.Wait()

	seen := map[string]int{}
	for _, msg := range b.DrainAll() {
		name, rest, ok := strings.Cut(msg.Text, "-")
		if !ok {
			t.Fatalf("unexpected payload %q", msg.Text)
		}
		seq, err := strconv.Atoi(rest)
		if err != nil {
			t.Fatalf("unexpected payload %q: %v", msg.Text, err)
		}
		if seq != seen[name] {
			t.Fatalf("producer %s out of order: got seq %d, want %d", name, seq, seen[name])
		}
		seen[name]++
	}
	if seen["p1"] != perTask || seen["p2"] != perTask {
		t.Fatalf("missing messages: %v", seen)
	}
}

func TestNewLineThenTaskCompletedKeepOrder(t *testing.T) {
	b := New(8)
	defer b.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = b.Send(NewLine("start"))
		time.Sleep(10 * time.Millisecond)
		_ = b.Send(TaskCompleted("done"))
	}()
	<-done

	msgs := b.DrainAll()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Kind != KindNewLine || msgs[0].Text != "start" {
		t.Fatalf("unexpected first message: %+v", msgs[0])
	}
	if msgs[1].Kind != KindTaskCompleted || msgs[1].Text != "done" {
		t.Fatalf("unexpected second message: %+v", msgs[1])
	}
}
