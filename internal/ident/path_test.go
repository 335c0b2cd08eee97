package ident

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		wantPkg string
		wantSym []string
		wantOK  bool
	}{
		{"encoding/json.Decoder.Decode", "encoding/json", []string{"Decoder", "Decode"}, true},
		{"fmt.Println", "fmt", []string{"Println"}, true},
		{"nodots", "", nil, false},
		{"", "", nil, false},
		{"pkg.", "", nil, false},
	}

	for _, tt := range tests {
		p, ok := Parse(tt.in)
		if ok != tt.wantOK {
			t.Fatalf("Parse(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
		}

		if !ok {
			continue
		}

		if p.Package() != tt.wantPkg {
			t.Errorf("Parse(%q) pkg = %q, want %q", tt.in, p.Package(), tt.wantPkg)
		}

		got := p.Symbols()
		if len(got) != len(tt.wantSym) {
			t.Fatalf("Parse(%q) symbols = %v, want %v", tt.in, got, tt.wantSym)
		}

		for i := range got {
			if got[i] != tt.wantSym[i] {
				t.Errorf("Parse(%q) symbols[%d] = %q, want %q", tt.in, i, got[i], tt.wantSym[i])
			}
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	p := New("encoding/json", "Decoder", "Decode")
	if got, want := p.String(), "encoding/json.Decoder.Decode"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	p2, ok := Parse(p.String())
	if !ok || !Equal(p, p2) {
		t.Fatalf("round trip failed: %v (ok=%v) != %v", p2, ok, p)
	}
}

func TestCompareOrdersByPackageThenSymbol(t *testing.T) {
	a := New("a/pkg", "F")
	b := New("a/pkg", "G")
	c := New("b/pkg", "A")

	if Compare(a, b) >= 0 {
		t.Errorf("expected a < b")
	}

	if Compare(b, c) >= 0 {
		t.Errorf("expected b < c")
	}

	if Compare(a, a) != 0 {
		t.Errorf("expected a == a")
	}
}

func TestIsInternal(t *testing.T) {
	if !New("pkg", "Foo__impl").IsInternal() {
		t.Errorf("expected Foo__impl to be internal")
	}

	if New("pkg", "Foo").IsInternal() {
		t.Errorf("expected Foo to not be internal")
	}
}

func TestValidateRejectsBadImportPath(t *testing.T) {
	p := New("not a path!!", "Sym")
	if err := p.Validate(); err == nil {
		t.Fatalf("expected validation error for malformed import path")
	}

	p2 := New("encoding/json", "Decode")
	if err := p2.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestHashConsistentWithEqual(t *testing.T) {
	a := New("pkg", "Foo")
	b := New("pkg", "Foo")
	c := New("pkg", "Bar")

	if Hash(a) != Hash(b) {
		t.Errorf("equal paths must hash equal")
	}

	if Hash(a) == Hash(c) && !Equal(a, c) {
		// Not a correctness requirement (hash collisions are allowed) but
		// flag it since it would be suspicious for these specific inputs.
		t.Logf("Hash collision between %v and %v (not necessarily a bug)", a, c)
	}
}
