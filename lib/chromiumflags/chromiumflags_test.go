package chromiumflags

import (
	"reflect"
	"strings"
	"testing"
)

func TestAppendCSVInto(t *testing.T) {
	var dst []string
	appendCSVInto(&dst, "a,, b , c,")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(dst, want) {
		t.Fatalf("appendCSVInto mismatch:\n got: %#v\nwant: %#v", dst, want)
	}
}

func TestParseTokenStream_BaseAndRuntime(t *testing.T) {
	var (
		baseLoad    []string
		baseExcept  []string
		rtLoad      []string
		rtExcept    []string
		baseDisable string
		rtDisable   string
	)

	baseTokens := []string{
		"--load-extension=/e1,/e2",
		"--disable-extensions-except=/x1",
		"--other=1",
		"--disable-extensions",
	}
	runtimeTokens := []string{
		"--disable-extensions-except=/x2,/x3",
		"--load-extension=/e3",
		"--disable-extensions",
		"--foo",
	}

	baseNonExt := parseTokenStream(baseTokens, &baseLoad, &baseExcept, &baseDisable)
	runtimeNonExt := parseTokenStream(runtimeTokens, &rtLoad, &rtExcept, &rtDisable)

	if !reflect.DeepEqual(baseLoad, []string{"/e1", "/e2"}) {
		t.Fatalf("base load-extension parsed incorrectly: %#v", baseLoad)
	}
	if !reflect.DeepEqual(baseExcept, []string{"/x1"}) {
		t.Fatalf("base disable-extensions-except parsed incorrectly: %#v", baseExcept)
	}
	if !reflect.DeepEqual(rtLoad, []string{"/e3"}) {
		t.Fatalf("runtime load-extension parsed incorrectly: %#v", rtLoad)
	}
	if !reflect.DeepEqual(rtExcept, []string{"/x2", "/x3"}) {
		t.Fatalf("runtime disable-extensions-except parsed incorrectly: %#v", rtExcept)
	}
	if baseDisable != "--disable-extensions" {
		t.Fatalf("expected base disable-all captured, got %q", baseDisable)
	}
	if rtDisable != "--disable-extensions" {
		t.Fatalf("expected runtime disable-all captured, got %q", rtDisable)
	}
	if !reflect.DeepEqual(baseNonExt, []string{"--other=1"}) {
		t.Fatalf("unexpected base non-extension tokens: %#v", baseNonExt)
	}
	if !reflect.DeepEqual(runtimeNonExt, []string{"--foo"}) {
		t.Fatalf("unexpected runtime non-extension tokens: %#v", runtimeNonExt)
	}
}

func TestMergeUnion(t *testing.T) {
	base := []string{"a", "b", "a", ""}
	rt := []string{"b", "c", "", "a"}
	got := union(base, rt)
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mergeUnion mismatch:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestOverrideSemantics_DisableBase_LoadRuntime(t *testing.T) {
	// Base has --disable-extensions, runtime has --load-extension → runtime overrides, no disable-all in final
	baseFlags := []string{"--disable-extensions"}
	runtimeFlags := []string{"--load-extension=/e1"}

	got := MergeFlags(baseFlags, runtimeFlags)

	for _, f := range got {
		if f == "--disable-extensions" {
			t.Fatalf("unexpected disable-all in final flags when runtime loads extensions: %#v", got)
		}
		if strings.HasPrefix(f, "--disable-extensions-except") {
			t.Fatalf("unexpected disable-extensions-except in final flags: %#v", got)
		}
	}
}

func TestMergeFlags(t *testing.T) {
	tests := []struct {
		name         string
		baseFlags    []string
		runtimeFlags []string
		want         []string
	}{
		{
			name:         "empty base and runtime",
			baseFlags:    []string{},
			runtimeFlags: []string{},
			want:         []string{},
		},
		{
			name:         "base only, no runtime",
			baseFlags:    []string{"--headless=new", "--disable-gpu"},
			runtimeFlags: nil,
			want:         []string{"--headless=new", "--disable-gpu"},
		},
		{
			name:         "runtime only, no base",
			baseFlags:    nil,
			runtimeFlags: []string{"--remote-debugging-port=0", "--no-sandbox"},
			want:         []string{"--remote-debugging-port=0", "--no-sandbox"},
		},
		{
			name:         "merge non-extension flags",
			baseFlags:    []string{"--headless=new"},
			runtimeFlags: []string{"--window-size=1280,720"},
			want:         []string{"--headless=new", "--window-size=1280,720"},
		},
		{
			name:         "deduplicate non-extension flags",
			baseFlags:    []string{"--headless=new", "--disable-gpu"},
			runtimeFlags: []string{"--headless=new", "--no-sandbox"},
			want:         []string{"--headless=new", "--disable-gpu", "--no-sandbox"},
		},
		{
			name:         "merge load-extension flags",
			baseFlags:    []string{"--load-extension=/e1"},
			runtimeFlags: []string{"--load-extension=/e2"},
			want:         []string{"--load-extension=/e1,/e2"},
		},
		{
			name:         "disable-extensions-except paths merged into load-extension",
			baseFlags:    []string{"--disable-extensions-except=/x1"},
			runtimeFlags: []string{"--disable-extensions-except=/x2"},
			want:         []string{"--load-extension=/x1,/x2"},
		},
		{
			name:         "runtime disable-extensions overrides all",
			baseFlags:    []string{"--load-extension=/e1", "--disable-extensions-except=/x1"},
			runtimeFlags: []string{"--disable-extensions"},
			want:         []string{"--disable-extensions"},
		},
		{
			name:         "base disable-extensions, runtime load-extension overrides",
			baseFlags:    []string{"--disable-extensions"},
			runtimeFlags: []string{"--load-extension=/e1"},
			want:         []string{"--load-extension=/e1"},
		},
		{
			name:         "base disable-extensions, no runtime load-extension keeps disable",
			baseFlags:    []string{"--disable-extensions", "--disable-gpu"},
			runtimeFlags: []string{"--no-sandbox"},
			want:         []string{"--disable-gpu", "--no-sandbox", "--disable-extensions"},
		},
		{
			name:         "complex merge with extensions and non-extensions",
			baseFlags:    []string{"--headless=new", "--load-extension=/e1", "--disable-extensions-except=/x1"},
			runtimeFlags: []string{"--no-sandbox", "--load-extension=/e2", "--disable-extensions-except=/x2"},
			want:         []string{"--headless=new", "--no-sandbox", "--load-extension=/e1,/e2,/x1,/x2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeFlags(tt.baseFlags, tt.runtimeFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MergeFlags() mismatch:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
