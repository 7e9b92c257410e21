package domain

import "testing"

func TestMatchKind_Priority(t *testing.T) {
	kinds := []MatchKind{MatchExactFull, MatchPartialFull, MatchExactClean, MatchPartialClean, MatchNone}
	for i := 1; i < len(kinds); i++ {
		if kinds[i-1].Priority() <= kinds[i].Priority() {
			t.Errorf("%s priority %d should exceed %s priority %d",
				kinds[i-1], kinds[i-1].Priority(), kinds[i], kinds[i].Priority())
		}
	}

	if got := MatchKind("bogus").Priority(); got != 0 {
		t.Errorf("unknown kind priority = %d, want 0", got)
	}
}

func TestMatchResult_Found(t *testing.T) {
	offer := &Offer{ID: "1", Title: "Хлеб"}

	tests := []struct {
		name   string
		result MatchResult
		want   bool
	}{
		{"matched", MatchResult{Offer: offer, Kind: MatchExactFull}, true},
		{"no offer", MatchResult{Kind: MatchNone}, false},
		{"offer with none kind", MatchResult{Offer: offer, Kind: MatchNone}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.result.Found(); got != tt.want {
				t.Errorf("Found() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOffer_HasSeller(t *testing.T) {
	if !(Offer{SellerName: "Лента"}).HasSeller() {
		t.Error("offer with seller should report HasSeller")
	}
	if (Offer{}).HasSeller() {
		t.Error("offer without seller should not report HasSeller")
	}
}
