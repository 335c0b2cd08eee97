package tyindex

import (
	"bytes"
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	idx, env := buildSample(t)

	path := filepath.Join(t.TempDir(), "index.bin")

	if err := Save(idx, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var got []string
	for in := range loaded.Iter() {
		got = append(got, in.Key.String()+" : "+in.Ty.String(loaded.Env()))
	}

	var want []string
	for in := range idx.Iter() {
		want = append(want, in.Key.String()+" : "+in.Ty.String(env))
	}

	if len(got) != len(want) {
		t.Fatalf("got %d entries after round-trip, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadRejectsCorruptMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")

	if err := os.WriteFile(path, []byte("not an index file at all"), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error loading a file with a corrupt magic header")
	}
}

func TestLoadRejectsUnknownPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.bin")); err == nil {
		t.Fatalf("expected an error loading a nonexistent file")
	}
}

func TestLoadRejectsFutureMajorVersion(t *testing.T) {
	idx, _ := buildSample(t)

	f := file{
		Version: "99.0.0",
		Env:     idx.env.Snapshot(),
	}

	for _, in := range idx.entries {
		f.Entries = append(f.Entries, wireInfo{Key: in.Key.String(), Tag: in.Ty.Tag()})
	}

	var buf bytes.Buffer
	buf.WriteString(magic)

	if err := gob.NewEncoder(&buf).Encode(f); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	path := filepath.Join(t.TempDir(), "future.bin")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error loading a file from an incompatible future major version")
	}
}

func TestParseRoundtrippedKeyFallsBackForDotlessString(t *testing.T) {
	_, ok := parseRoundtrippedKey("")
	if ok {
		t.Fatalf("empty string should not parse")
	}

	fb, ok := parseRoundtrippedKey("nodots")
	if !ok || fb.Package() != "nodots" || fb.Symbol() != "_" {
		t.Fatalf("got %v, %v, want the dotless string to fall back to package nodots, symbol _", fb, ok)
	}

	p, ok := parseRoundtrippedKey("example.com/a.Double")
	if !ok || p.Package() != "example.com/a" || p.Symbol() != "Double" {
		t.Fatalf("got %v, %v, want example.com/a.Double to parse cleanly", p, ok)
	}
}
