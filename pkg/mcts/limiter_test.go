package mcts

import (
	"context"
	"testing"
	"time"
)

func TestLimiterSingleLimits(t *testing.T) {
	limiter := LimiterLike(NewLimiter(32))

	if !limiter.Ok(1000000, 1000000, 1) || !limiter.Expand() {
		t.Error("Default limiter should search infinitely, expand=", limiter.Expand())
	}

	limiter.SetLimits(DefaultLimits().SetNodes(100))
	limiter.Reset()
	if ok := limiter.Ok(101, 1, 1); ok {
		t.Errorf("<Nodes=%d: ok=%v, want=%v", 101, ok, !ok)
	}
	if ok := limiter.Ok(99, 1, 1); !ok {
		t.Errorf(">Nodes=%d: ok=%v, want=%v", 99, ok, !ok)
	}

	limiter.SetLimits(DefaultLimits().SetCycles(50))
	limiter.Reset()
	if ok := limiter.Ok(1, 1, 50); ok {
		t.Errorf("<Cycles=%d: ok=%v, want=%v", 50, ok, !ok)
	}
	if ok := limiter.Ok(1, 1, 49); !ok {
		t.Errorf(">Cycles=%d: ok=%v, want=%v", 49, ok, !ok)
	}

	limiter.SetLimits(DefaultLimits().SetDepth(5))
	limiter.Reset()
	if ok := limiter.Ok(1, 5, 1); ok {
		t.Errorf("<Depth=%d: ok=%v, want=%v", 5, ok, !ok)
	}

	limiter.SetLimits(DefaultLimits().SetByteSize(10 * 32))
	limiter.Reset()
	if ok := limiter.Ok(10, 1, 1); ok {
		t.Errorf("<Size=%d: ok=%v, want=%v", 10, ok, !ok)
	}
	if ok := limiter.Ok(9, 1, 1); !ok {
		t.Errorf(">Size=%d: ok=%v, want=%v", 9, ok, !ok)
	}

	limiter.SetLimits(DefaultLimits().SetMovetime(100))
	limiter.Reset()
	time.Sleep(time.Millisecond * 101)
	if ok := limiter.Ok(1, 1, 1); ok {
		t.Errorf("<Movetime: ok=%v, want=%v", ok, !ok)
	}

	limiter.Reset()
	if ok := limiter.Ok(1, 1, 1); !ok {
		t.Errorf(">Movetime: ok=%v, want=%v", ok, !ok)
	}
}

func TestLimiterCombos(t *testing.T) {
	limiter := LimiterLike(NewLimiter(32))

	// Cycles + memory limit, if memory exhausted, wait for 'cycles' and disable expanding
	limiter.SetLimits(DefaultLimits().SetCycles(100).SetByteSize(32 * 10))
	limiter.Reset()

	if !(limiter.Ok(10, 1, 99) && !limiter.Expand()) {
		t.Error(">Cycles+Memory failed: ok=", limiter.Ok(10, 1, 99), "expand=", limiter.Expand())
	}
	if !(!limiter.Ok(10, 1, 101) && !limiter.Expand()) {
		t.Error("<Cycles+Memory failed: ok=", limiter.Ok(10, 1, 101), "expand=", limiter.Expand())
	}

	// Time + memory limit
	limiter.SetLimits(DefaultLimits().SetMovetime(100).SetByteSize(32 * 10))
	limiter.Reset()

	if !(limiter.Ok(100, 1, 1) && !limiter.Expand()) {
		t.Error(">Time+Memory failed: ok=", limiter.Ok(100, 1, 1), "expand=", limiter.Expand())
	}

	time.Sleep(time.Millisecond * 101)
	if !(!limiter.Ok(100, 1, 1) && !limiter.Expand()) {
		t.Error("<Time+Memory failed: ok=", limiter.Ok(100, 1, 1), "expand=", limiter.Expand())
	}
}

func TestLimiterStopReason(t *testing.T) {
	limiter := NewLimiter(32)
	limiter.SetLimits(DefaultLimits().SetCycles(10).SetDepth(3))
	limiter.Reset()

	limiter.EvaluateStopReason(1, 3, 10)
	if reason := limiter.StopReason(); reason != StopDepth|StopCycles {
		t.Fatalf("stop reason %s", reason)
	}
	if s := (StopDepth | StopCycles).String(); s != "Depth|Cycles" {
		t.Fatalf("stop reason string %q", s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	limiter.SetContext(ctx)
	limiter.Reset()
	cancel()
	if limiter.Ok(1, 1, 1) || !limiter.Stop() {
		t.Fatal("cancelled context should stop the limiter")
	}
}

func TestLimitsString(t *testing.T) {
	if s := DefaultLimits().String(); s != "infinite" {
		t.Errorf("Expected infinite, got %q", s)
	}
	if s := DefaultLimits().SetCycles(200).SetMovetime(50).String(); s != "cycles=200 movetime=50ms" {
		t.Errorf("Expected cycles and movetime, got %q", s)
	}
}
