package tyindex

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	semver "github.com/Masterminds/semver/v3"

	"github.com/dowsing-go/dowsing/internal/derr"
	"github.com/dowsing-go/dowsing/internal/feature"
	"github.com/dowsing-go/dowsing/internal/ident"
	"github.com/dowsing-go/dowsing/internal/term"
	"github.com/dowsing-go/dowsing/internal/trie"
)

// magic tags the start of every persisted index file, so a stray file (or
// one written by a wholly unrelated program) fails fast with a decode error
// rather than silently misinterpreting garbage as a Snapshot (spec.md
// §6.1 "Versioning is recommended via a magic prefix and monotonic version
// integer").
const magic = "DOWSIDX1"

// formatVersion is this binary's on-disk format version, parsed as a
// semver.Version so Load can reject a file from a future incompatible
// writer by major version rather than attempting (and likely failing) a
// gob decode against a layout it does not understand.
var formatVersion = semver.MustParse("1.0.0")

// file is the top-level gob-encoded payload: the version string, the
// term.Env snapshot, and every harvested Info (path + tag reference into
// the snapshot's arena).
type file struct {
	Version string
	Env     term.Snapshot
	Entries []wireInfo
}

// wireInfo mirrors Info but references its Ty by arena tag rather than by
// pointer, matching term.WireTy's tag-reference discipline.
type wireInfo struct {
	Key string
	Tag int
}

// Save writes idx to path as a single opaque binary blob (spec.md §6.1):
// the environment (variable generator state + name map), the hash-cons
// arena, and every Info entry, gob-encoded behind a magic+version header.
// The trie itself is not serialized — Load rebuilds it from Entries, which
// is cheaper than teaching gob to walk the trie's map-of-maps shape and
// guarantees the rebuilt trie is keyed by whatever feature.All happens to
// be in the loading binary.
//
// Save takes an advisory exclusive flock on path for the duration of the
// write (see flock_unix.go / flock_other.go), grounded on the teacher's
// per-OS build-tag split for syscall-level file operations
// (internal/runtime/asyncio's zerocopy_unix_file.go / _windows_file.go):
// it guards against two `dowse-build` invocations racing on the same output
// path, not against a concurrent Load (spec.md §5 only promises an Env is
// unsafe for concurrent *mutation*; Save is the only mutator of the file).
func Save(idx *Index, path string) error {
	f := file{
		Version: formatVersion.String(),
		Env:     idx.env.Snapshot(),
		Entries: make([]wireInfo, len(idx.entries)),
	}

	for i, in := range idx.entries {
		f.Entries[i] = wireInfo{Key: in.Key.String(), Tag: in.Ty.Tag()}
	}

	var buf bytes.Buffer

	buf.WriteString(magic)

	if err := gob.NewEncoder(&buf).Encode(f); err != nil {
		return derr.IndexSaveFailed(path, err)
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return derr.IndexSaveFailed(path, err)
	}
	defer out.Close()

	unlock, err := lockExclusive(out)
	if err != nil {
		return derr.IndexSaveFailed(path, err)
	}
	defer unlock()

	if err := out.Truncate(0); err != nil {
		return derr.IndexSaveFailed(path, err)
	}

	if _, err := out.Write(buf.Bytes()); err != nil {
		return derr.IndexSaveFailed(path, err)
	}

	return out.Sync()
}

// Load reads a file written by Save back into an Index (spec.md §6.1). Term
// identity is preserved within the deserialized image (term.Rebuild replays
// the arena positionally), but the returned Index's Env must never be mixed
// with terms from any other Env, including one loaded from a different file
// (spec.md §3.2, §7).
//
// Load fails with a CategoryIndex error (derr.IndexLoadFailed) if the file
// cannot be opened or decoded, and with derr.IndexVersionUnsupported if the
// file's major version exceeds what this binary's formatVersion supports —
// both are spec.md §7's one named I/O failure kind.
func Load(path string) (*Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, derr.IndexLoadFailed(path, err)
	}

	if len(raw) < len(magic) || string(raw[:len(magic)]) != magic {
		return nil, derr.IndexLoadFailed(path, fmt.Errorf("missing or corrupt magic header"))
	}

	var f file

	dec := gob.NewDecoder(bufio.NewReader(bytes.NewReader(raw[len(magic):])))
	if err := dec.Decode(&f); err != nil {
		return nil, derr.IndexLoadFailed(path, err)
	}

	fileVer, err := semver.NewVersion(f.Version)
	if err != nil {
		return nil, derr.IndexLoadFailed(path, fmt.Errorf("unparseable version %q: %w", f.Version, err))
	}

	if fileVer.Major() > formatVersion.Major() {
		return nil, derr.IndexVersionUnsupported(path, fileVer.String(), formatVersion.String())
	}

	env := term.Rebuild(f.Env)

	idx := &Index{
		env:      env,
		tr:       trie.New[Info](feature.All),
		packages: make(map[string]struct{}),
	}

	for _, wi := range f.Entries {
		key, ok := parseRoundtrippedKey(wi.Key)
		if !ok {
			return nil, derr.IndexLoadFailed(path, fmt.Errorf("unparseable entry key %q", wi.Key))
		}

		ty, ok := env.ByTag(wi.Tag)
		if !ok {
			return nil, derr.IndexLoadFailed(path, fmt.Errorf("entry %q references out-of-range tag %d", wi.Key, wi.Tag))
		}

		in := Info{Key: key, Ty: ty}
		idx.tr.Add(in.Ty, in)
		idx.entries = append(idx.entries, in)
		idx.packages[in.Key.Package()] = struct{}{}
	}

	return idx, nil
}

// parseRoundtrippedKey recovers an ident.Path from the dotted string Save
// wrote. It falls back to treating the whole string as a single-symbol Path
// under a synthetic package when ident.Parse can't find a dot after the
// final slash — mirroring term/codec.go's fromWire fallback for the same
// shape of string.
func parseRoundtrippedKey(s string) (ident.Path, bool) {
	if p, ok := ident.Parse(s); ok {
		return p, true
	}

	if s == "" {
		return ident.Path{}, false
	}

	return ident.New(s, "_"), true
}
