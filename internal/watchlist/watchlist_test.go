package watchlist

import (
	"testing"

	"stocksim/internal/model"
)

func TestAlertFiresWithinTolerance(t *testing.T) {
	w := New()
	w.SetAlert("AAPL", 150)

	fired := w.Evaluate(map[string]float64{"AAPL": 150.49})
	if len(fired) != 1 {
		t.Fatalf("fired = %d, want 1", len(fired))
	}
	if fired[0].Symbol != "AAPL" || fired[0].Target != 150 {
		t.Errorf("fired = %+v", fired[0])
	}
}

func TestAlertOutsideToleranceDoesNotFire(t *testing.T) {
	w := New()
	w.SetAlert("AAPL", 150)

	if fired := w.Evaluate(map[string]float64{"AAPL": 150.5}); len(fired) != 0 {
		t.Errorf("fired = %d, want 0 at exact tolerance boundary", len(fired))
	}
}

func TestAlertIsOneShot(t *testing.T) {
	w := New()
	w.SetAlert("AAPL", 150)

	prices := map[string]float64{"AAPL": 150.1}
	if fired := w.Evaluate(prices); len(fired) != 1 {
		t.Fatalf("first evaluation fired = %d, want 1", len(fired))
	}
	if fired := w.Evaluate(prices); len(fired) != 0 {
		t.Errorf("second evaluation fired = %d, want 0", len(fired))
	}
	// Firing clears the target but keeps the membership.
	if !w.Contains("AAPL") {
		t.Error("symbol dropped from watch set after alert fired")
	}
	// Re-arming restores the alert.
	w.SetAlert("AAPL", 150)
	if fired := w.Evaluate(prices); len(fired) != 1 {
		t.Errorf("re-armed evaluation fired = %d, want 1", len(fired))
	}
}

func TestEvaluateSkipsUnpricedSymbols(t *testing.T) {
	w := New()
	w.SetAlert("DELISTED", 10)

	if fired := w.Evaluate(map[string]float64{"AAPL": 150}); len(fired) != 0 {
		t.Errorf("fired = %d, want 0 for unpriced symbol", len(fired))
	}
	// Target stays armed while the symbol has no price.
	if fired := w.Evaluate(map[string]float64{"DELISTED": 10.2}); len(fired) != 1 {
		t.Errorf("fired = %d, want 1 once the symbol is priced", len(fired))
	}
}

func TestRemoveDropsAlert(t *testing.T) {
	w := New()
	w.Add("AAPL")
	w.SetAlert("AAPL", 150)
	w.Remove("AAPL")

	if w.Contains("AAPL") {
		t.Error("symbol still watched after removal")
	}
	if fired := w.Evaluate(map[string]float64{"AAPL": 150}); len(fired) != 0 {
		t.Errorf("fired = %d, want 0 after removal", len(fired))
	}
}

func TestItemsRoundTrip(t *testing.T) {
	w := New()
	w.Add("MSFT")
	w.SetAlert("AAPL", 150)

	items := w.Items()
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}

	restored := NewFromItems(items)
	if !restored.Contains("MSFT") || !restored.Contains("AAPL") {
		t.Error("membership lost in round trip")
	}
	if fired := restored.Evaluate(map[string]float64{"AAPL": 150.2}); len(fired) != 1 {
		t.Errorf("restored alert fired = %d, want 1", len(fired))
	}
}

func TestNewFromItemsPreservesAlert(t *testing.T) {
	target := 99.5
	w := NewFromItems([]model.WatchItem{{Symbol: "TSLA", Alert: &target}})
	if fired := w.Evaluate(map[string]float64{"TSLA": 99.2}); len(fired) != 1 {
		t.Errorf("fired = %d, want 1", len(fired))
	}
}
