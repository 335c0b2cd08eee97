package main

import (
	"go/token"
	"go/types"
	"path/filepath"
	"testing"

	"go.uber.org/mock/gomock"
	"golang.org/x/tools/go/packages"

	"github.com/dowsing-go/dowsing/internal/harvest/harvestmock"
	"github.com/dowsing-go/dowsing/internal/tyindex"
)

func buildExamplePackage(t *testing.T) *types.Package {
	t.Helper()

	pkg := types.NewPackage("example.com/pkg", "pkg")

	sig := types.NewSignatureType(nil, nil, nil,
		types.NewTuple(types.NewVar(token.NoPos, pkg, "n", types.Typ[types.Int])),
		types.NewTuple(types.NewVar(token.NoPos, pkg, "", types.Typ[types.Int])),
		false)
	fn := types.NewFunc(token.NoPos, pkg, "Double", sig)
	pkg.Scope().Insert(fn)

	return pkg
}

func TestBuildOnceWritesLoadableIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := harvestmock.NewMockSource(ctrl)

	pkg := &packages.Package{
		PkgPath: "example.com/pkg",
		Types:   buildExamplePackage(t),
		GoFiles: []string{"/src/example.com/pkg/double.go"},
	}

	src.EXPECT().Load("example.com/pkg").Return([]*packages.Package{pkg}, nil)

	out := filepath.Join(t.TempDir(), "index.bin")

	if err := buildOnce(src, out, []string{"example.com/pkg"}); err != nil {
		t.Fatalf("buildOnce: %v", err)
	}

	idx, err := tyindex.Load(out)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var keys []string
	for in := range idx.Iter() {
		keys = append(keys, in.Key.String())
	}

	if len(keys) != 1 || keys[0] != "example.com/pkg.Double" {
		t.Fatalf("got %v, want [example.com/pkg.Double]", keys)
	}
}

func TestBuildOncePropagatesHarvestError(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := harvestmock.NewMockSource(ctrl)

	src.EXPECT().Load("bad/pkg").Return(nil, errBuildLoad)

	out := filepath.Join(t.TempDir(), "index.bin")

	if err := buildOnce(src, out, []string{"bad/pkg"}); err == nil {
		t.Fatalf("expected buildOnce to propagate the harvest error")
	}
}

var errBuildLoad = &loadError{}

type loadError struct{}

func (*loadError) Error() string { return "simulated load failure" }

func TestWatchDirsForDedupsAndSkipsEmptyDirs(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := harvestmock.NewMockSource(ctrl)

	pkgA := &packages.Package{GoFiles: []string{"/src/a/one.go", "/src/a/two.go"}}
	pkgB := &packages.Package{GoFiles: []string{"/src/b/main.go", "nodir"}}

	src.EXPECT().Load("a/...").Return([]*packages.Package{pkgA}, nil)
	src.EXPECT().Load("b").Return([]*packages.Package{pkgB}, nil)

	dirs, err := watchDirsFor(src, []string{"a/...", "b"})
	if err != nil {
		t.Fatalf("watchDirsFor: %v", err)
	}

	if len(dirs) != 2 || dirs[0] != "/src/a" || dirs[1] != "/src/b" {
		t.Fatalf("got %v, want [/src/a /src/b]", dirs)
	}
}

func TestWatchDirsForPropagatesLoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	src := harvestmock.NewMockSource(ctrl)

	src.EXPECT().Load("bad/pkg").Return(nil, errBuildLoad)

	if _, err := watchDirsFor(src, []string{"bad/pkg"}); err == nil {
		t.Fatalf("expected watchDirsFor to propagate the Source error")
	}
}

func TestPkgFlagSetAppendsAndStringJoins(t *testing.T) {
	var p pkgFlag

	if err := p.Set("a"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := p.Set("b"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if p.String() != "a,b" {
		t.Fatalf("got %q, want %q", p.String(), "a,b")
	}
}

func TestDirOf(t *testing.T) {
	cases := map[string]string{
		"/src/a/one.go": "/src/a",
		"nodir":         "",
	}

	for in, want := range cases {
		if got := dirOf(in); got != want {
			t.Errorf("dirOf(%q) = %q, want %q", in, got, want)
		}
	}
}
