package pricing

import "testing"

func TestClassifySignal(t *testing.T) {
	cases := []struct {
		mispricing float64
		want       Signal
	}{
		{0.1111, SignalBuy},
		{0.10 + 1e-6, SignalBuy},
		{0.10, SignalFair}, // boundary is strict
		{0.0, SignalFair},
		{-0.10, SignalFair}, // boundary is strict
		{-0.10 - 1e-6, SignalOverpriced},
		{-0.5, SignalOverpriced},
	}

	for _, tc := range cases {
		got := ClassifySignal(&tc.mispricing)
		if got == nil || *got != tc.want {
			t.Errorf("ClassifySignal(%v): expected %v, got %v", tc.mispricing, tc.want, got)
		}
	}
}

func TestClassifySignalNil(t *testing.T) {
	if got := ClassifySignal(nil); got != nil {
		t.Errorf("expected nil signal for nil mispricing, got %v", *got)
	}
}
