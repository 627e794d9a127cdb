package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/wayfinder/pkg/cache"
	errs "github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/observability"
)

// execute runs the root command against a map file in dir and returns
// everything written to stdout and stderr.
func execute(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeLogged(t, dir, stdin, io.Discard, args...)
}

// executeLogged is execute with the CLI logger writing to logw.
func executeLogged(t *testing.T, dir, stdin string, logw io.Writer, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{
		"WAYFINDER_MAP", "WAYFINDER_STORE", "WAYFINDER_MAPS_DIR",
		"WAYFINDER_LOG_LEVEL", "OTEL_TRACES_ENABLED",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Cleanup(observability.Reset)

	c := New(logw, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.toml"),
		"--map", filepath.Join(dir, "map_data.json"),
	}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// scenario builds Forest -south-> Beach -east-> Mountain in dir.
func scenario(t *testing.T, dir string) {
	t.Helper()
	steps := [][]string{
		{"add-location", "Forest", "wood,berries"},
		{"add-location", "Beach", "sand, shells"},
		{"add-location", "Mountain", "stone,iron"},
		{"connect", "Forest", "Beach", "south"},
		{"connect", "Beach", "Mountain", "EAST"},
	}
	for _, args := range steps {
		if out, err := execute(t, dir, "", args...); err != nil {
			t.Fatalf("%v: %v\n%s", args, err, out)
		}
	}
}

func TestOneShotCommandsPersist(t *testing.T) {
	dir := t.TempDir()
	scenario(t, dir)

	if _, err := execute(t, dir, "", "goto", "Forest"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "map_data.json"))
	if err != nil {
		t.Fatalf("map file not written: %v", err)
	}
	for _, want := range []string{`"current_location": "Forest"`, `"south": "Beach"`, `"shells"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("map file missing %s:\n%s", want, data)
		}
	}

	out, err := execute(t, dir, "", "path", "Mountain")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "south → east") {
		t.Errorf("path output = %q, want south → east", out)
	}
}

func TestGotoCurrentDoesNotRewrite(t *testing.T) {
	dir := t.TempDir()
	scenario(t, dir)
	if _, err := execute(t, dir, "", "goto", "Forest"); err != nil {
		t.Fatal(err)
	}

	// A trailing marker survives only if the file is not written again.
	path := filepath.Join(dir, "map_data.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	marked := append(data, "\n\n"...)
	if err := os.WriteFile(path, marked, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, dir, "", "goto", "Forest"); err != nil {
		t.Fatal(err)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(after, marked) {
		t.Error("goto to the current location rewrote the map file")
	}
}

func TestReadOnlyCommandsDoNotWrite(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, dir, "", "locations"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "map_data.json")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("locations created the map file: %v", err)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	scenario(t, dir)

	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"UnknownLocation", []string{"goto", "Nowhere"}, errs.ErrCodeUnknownLocation},
		{"BadDirection", []string{"connect", "Forest", "Mountain", "up"}, errs.ErrCodeInvalidDirection},
		{"Duplicate", []string{"add-location", "Forest"}, errs.ErrCodeDuplicateLocation},
		{"NoCurrent", []string{"look"}, errs.ErrCodeNoCurrentLocation},
		{"ResourceRequired", []string{"find"}, errs.ErrCodeInvalidInput},
		{"BadBackend", []string{"--store", "floppy", "locations"}, errs.ErrCodeInvalidConfig},
		{"BadMapName", []string{"save", ".hidden"}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, dir, "", tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("%v error = %v, want %s", tt.args, err, tt.code)
			}
		})
	}
}

func TestQueries(t *testing.T) {
	dir := t.TempDir()
	scenario(t, dir)
	if _, err := execute(t, dir, "", "goto", "Forest"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"Look", []string{"look"}, []string{"Location: Forest", "wood, berries", "Beach"}},
		{"Nearest", []string{"nearest", "iron"}, []string{"Mountain", "south → east"}},
		{"NearestHere", []string{"nearest", "wood"}, []string{"Forest", "(already there)"}},
		{"NearestMissing", []string{"nearest", "gold"}, []string{"No reachable location has 'gold'"}},
		{"Find", []string{"find", "sand"}, []string{"Found 'sand' in: Beach"}},
		{"FindMissing", []string{"find", "gold"}, []string{"not found in any location"}},
		{"Route", []string{"route", "Mountain", "Forest"}, []string{"west → north"}},
		{"Locations", []string{"locations"}, []string{"Forest", "Beach", "Mountain", "south: Beach"}},
		{"Resources", []string{"resources"}, []string{"iron", "Mountain"}},
		{"Maps", []string{"maps"}, []string{"map_data.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, dir, "", tt.args...)
			if err != nil {
				t.Fatalf("%v: %v", tt.args, err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("%v output missing %q:\n%s", tt.args, want, out)
				}
			}
		})
	}
}

func TestResourceCommands(t *testing.T) {
	dir := t.TempDir()
	scenario(t, dir)

	out, err := execute(t, dir, "", "add-resource", "Beach", "driftwood,sand")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Added driftwood to 'Beach'") {
		t.Errorf("add-resource output = %q", out)
	}

	out, err = execute(t, dir, "", "remove-resource", "Forest", "wood")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Removed wood from 'Forest'") {
		t.Errorf("remove-resource output = %q", out)
	}

	out, err = execute(t, dir, "", "find", "wood")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "not found") {
		t.Errorf("wood should be gone, got %q", out)
	}
}

func TestConnectReportsTakenSlots(t *testing.T) {
	dir := t.TempDir()
	scenario(t, dir)
	if _, err := execute(t, dir, "", "add-location", "Cave"); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, dir, "", "connect", "Forest", "Cave", "south")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Forest already has a south exit") {
		t.Errorf("connect output = %q", out)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	scenario(t, dir)

	if _, err := execute(t, dir, "", "save", "backup"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "backup.json")); err != nil {
		t.Fatalf("backup not written: %v", err)
	}

	if _, err := execute(t, dir, "", "add-location", "Cave"); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, dir, "", "load", "backup")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Map loaded from backup") {
		t.Errorf("load output = %q", out)
	}

	out, err = execute(t, dir, "", "locations")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "Cave") {
		t.Errorf("working map should have been replaced by backup:\n%s", out)
	}

	_, err = execute(t, dir, "", "load", "missing")
	if !errs.Is(err, errs.ErrCodeStorageNotFound) {
		t.Errorf("load missing error = %v, want STORAGE_NOT_FOUND", err)
	}
}

func TestExample(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, dir, "", "example"); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, dir, "", "locations")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Beach", "Forest", "Mountain", "Cave", "Lake", "Camp", "Plains", "Village"} {
		if !strings.Contains(out, name) {
			t.Errorf("example map missing %s", name)
		}
	}
}

func TestRenderDOT(t *testing.T) {
	dir := t.TempDir()
	scenario(t, dir)

	out, err := execute(t, dir, "", "render", "--format", "dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "digraph world {") {
		t.Errorf("render output = %q", out)
	}

	path := filepath.Join(dir, "map.dot")
	if _, err := execute(t, dir, "", "render", "-o", path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"Forest" -> "Beach"`) {
		t.Errorf("rendered file = %s", data)
	}
}

func TestDrawUsesCache(t *testing.T) {
	ctx := withLogger(context.Background(), newLogger(io.Discard, LogInfo))
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	dot := "digraph world {}"
	if err := fc.Set(ctx, cache.RenderKey(dot, "svg"), []byte("<svg>cached</svg>"), cache.RenderTTL); err != nil {
		t.Fatal(err)
	}
	data, err := draw(ctx, fc, dot, "svg")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<svg>cached</svg>" {
		t.Errorf("draw() = %q, want cached diagram", data)
	}

	data, err = draw(ctx, fc, dot, "dot")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != dot {
		t.Errorf("draw(dot) = %q, want passthrough", data)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "wayfinder") {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != filepath.Join(dir, "cache", "wayfinder") {
		t.Errorf("cache path = %q", out)
	}

	fc, err := cache.NewFileCache(filepath.Join(dir, "cache", "wayfinder"))
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(context.Background(), "k", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	out, err = execute(t, dir, "", "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared 1 cached diagrams") {
		t.Errorf("cache clear output = %q", out)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"wood,berries", []string{"wood", "berries"}},
		{" wood , berries ", []string{"wood", "berries"}},
		{"wood,,", []string{"wood"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := splitList(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"map.svg": "svg",
		"MAP.PNG": "png",
		"map.dot": "dot",
		"map":     "dot",
		"":        "dot",
	}
	for in, want := range tests {
		if got := formatFromPath(in); got != want {
			t.Errorf("formatFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}
