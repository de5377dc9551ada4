package gvas

import "testing"

func TestInternTable(t *testing.T) {
	tab := newInternTable()

	a := tab.get("StructProperty")
	b := tab.get("StructProperty")
	if a != b {
		t.Errorf("interned copies differ: %q vs %q", a, b)
	}
	if tab.get("") != "" {
		t.Error("empty string interned non-empty")
	}
	if tab.get("IntProperty") != "IntProperty" {
		t.Error("intern changed the string")
	}
}

func TestInternTableEviction(t *testing.T) {
	tab := newInternTable()
	// Push far past the cap; the table must stay bounded and keep
	// answering correctly.
	for i := 0; i < internCap*2; i++ {
		s := "Prop" + string(rune('A'+i%26)) + string(rune('0'+i%10))
		if tab.get(s) != s {
			t.Fatalf("intern changed %q", s)
		}
	}
	if tab.cache.Len() > internCap {
		t.Errorf("cache grew to %d, cap %d", tab.cache.Len(), internCap)
	}
}
