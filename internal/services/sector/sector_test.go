package sector

import "testing"

func TestLookupMapped(t *testing.T) {
	m := New(nil, "")
	if got := m.Lookup("JPM"); got != "XLF" {
		t.Fatalf("JPM got %s, want XLF", got)
	}
	if got := m.Lookup("XOM"); got != "XLE" {
		t.Fatalf("XOM got %s, want XLE", got)
	}
}

func TestLookupFallback(t *testing.T) {
	m := New(nil, "")
	if got := m.Lookup("UNKNOWN"); got != DefaultFallback {
		t.Fatalf("unmapped got %s, want %s", got, DefaultFallback)
	}

	custom := New(map[string]string{"ABC": "XLI"}, "SPY")
	if got := custom.Lookup("ABC"); got != "XLI" {
		t.Fatalf("ABC got %s, want XLI", got)
	}
	if got := custom.Lookup("ZZZ"); got != "SPY" {
		t.Fatalf("unmapped got %s, want SPY", got)
	}
}

func TestNewCopiesMapping(t *testing.T) {
	src := map[string]string{"ABC": "XLI"}
	m := New(src, "")
	src["ABC"] = "XLF"
	if got := m.Lookup("ABC"); got != "XLI" {
		t.Fatalf("mapping must be copied, got %s", got)
	}
}
