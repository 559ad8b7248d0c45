package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/padelista/padel-stats/internal/domain/event"
)

func matchEvent(matchID, playerID string, offset time.Duration, t event.Type, d event.Detail) event.Event {
	base := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	return event.Event{
		MatchID:   matchID,
		PlayerID:  playerID,
		Type:      t,
		Timestamp: base.Add(offset),
		Detail:    d,
	}
}

func TestRecompute_Deterministic(t *testing.T) {
	t.Parallel()

	roster := []string{"p1", "p2", "p3", "p4"}
	events := []event.Event{
		matchEvent("m1", "p1", 0, event.TypeFirstServeIn, nil),
		matchEvent("m1", "p1", time.Second, event.TypePointWon, event.PointWonDetail{Serve: event.ServeFirst}),
		matchEvent("m1", "p2", 2*time.Second, event.TypeUnforcedError, nil),
		matchEvent("m1", "p3", 3*time.Second, event.TypePointLost, event.PointLostDetail{Exit34: true}),
	}

	first := Recompute(events, roster)
	second := Recompute(events, roster)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("recompute is not deterministic:\nfirst=%+v\nsecond=%+v", first, second)
	}
}

func TestRecompute_EmptyLogCoversRoster(t *testing.T) {
	t.Parallel()

	got := Recompute(nil, []string{"p1", "p2"})
	if len(got) != 2 {
		t.Fatalf("expected one entry per roster player, got %d", len(got))
	}
	for playerID, s := range got {
		if s.PlayerID != playerID {
			t.Fatalf("entry keyed by %q carries player %q", playerID, s.PlayerID)
		}
		if s.FirstServePct != 0 {
			t.Fatalf("zero events must finalize to 0%%, got %v", s.FirstServePct)
		}
	}
}

func TestRecompute_IgnoresOffRosterEvents(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		matchEvent("m1", "stranger", 0, event.TypeUnforcedError, nil),
		matchEvent("m1", "p1", time.Second, event.TypeForcedError, nil),
	}

	got := Recompute(events, []string{"p1"})
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got["p1"].ForcedErrors != 1 {
		t.Fatalf("roster event lost: %+v", got["p1"])
	}
}

func TestRecompute_OrdersByTimestamp(t *testing.T) {
	t.Parallel()

	// Shuffled input must not change the fold result.
	events := []event.Event{
		matchEvent("m1", "p1", 3*time.Second, event.TypeLobError, nil),
		matchEvent("m1", "p1", time.Second, event.TypeFirstServeIn, nil),
		matchEvent("m1", "p1", 2*time.Second, event.TypeFirstServeOut, nil),
	}

	got := Recompute(events, []string{"p1"})["p1"]
	if got.FirstServesIn != 1 || got.FirstServesOut != 1 || got.LobErrors != 1 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if got.FirstServePct != 50 {
		t.Fatalf("unexpected percentage: got=%v want=50", got.FirstServePct)
	}
}

func TestRecompute_MatchesIncrementalFold(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		matchEvent("m1", "p1", 0, event.TypeFirstServeIn, nil),
		matchEvent("m1", "p1", time.Second, event.TypePointWon, event.PointWonDetail{Serve: event.ServeFirst}),
		matchEvent("m1", "p1", 2*time.Second, event.TypePointWon, event.PointWonDetail{Serve: event.ServeSecond, Exit34: true, ReturnPoint: true}),
		matchEvent("m1", "p1", 3*time.Second, event.TypeSmashError, nil),
		matchEvent("m1", "p1", 4*time.Second, event.TypeFirstServeOut, nil),
	}

	incremental := Zero("m1", "p1")
	for _, e := range events {
		incremental = Apply(incremental, e.Type, e.Detail)
	}
	incremental = Finalize(incremental)

	batch := Recompute(events, []string{"p1"})["p1"]
	if incremental != batch {
		t.Fatalf("incremental and batch paths diverge:\nincremental=%+v\nbatch=%+v", incremental, batch)
	}
}

func TestRecompute_SingleEventMultipleCounters(t *testing.T) {
	t.Parallel()

	events := []event.Event{
		matchEvent("m1", "p1", 0, event.TypePointWon, event.PointWonDetail{Serve: event.ServeSecond, Exit34: true}),
	}

	got := Recompute(events, []string{"p1"})["p1"]
	if got.PointsWonSecondServe != 1 || got.PointsWonExit34 != 1 {
		t.Fatalf("single event must bump both counters: %+v", got)
	}
}
