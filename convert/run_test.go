package convert

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"themer/common"
	"themer/config"
	"themer/state"
)

const sampleStyle = `.card {
	margin: 8px;
	color: #333;
}
`

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	env.Cfg = cfg
	return ctx, env
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	zf, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zf.Close()
	w := zip.NewWriter(zf)
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		f, err := w.Create(n)
		if err != nil {
			t.Fatalf("Failed to create file in zip: %v", err)
		}
		if _, err := f.Write([]byte(files[n])); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

// collect returns names of all sources visited by process.
func collect(t *testing.T, ctx context.Context, src string) ([]string, error) {
	t.Helper()
	var names []string
	err := process(ctx, src, func(_ context.Context, s *source) error {
		names = append(names, filepath.ToSlash(s.name))
		return nil
	}, state.EnvFromContext(ctx).Log)
	slices.Sort(names)
	return names, err
}

func TestProcess_NonExistentPath(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	_, err := collect(t, ctx, "/nonexistent/path/site.css")
	if err == nil {
		t.Fatal("Expected error for non-existent path, got nil")
	}
	if !strings.Contains(err.Error(), "input source was not found") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()

	if _, err := collect(t, cancelCtx, t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled error, got %v", err)
	}
}

func TestProcess_Sources(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "site.css"), sampleStyle)
	writeFile(t, filepath.Join(root, "nested", "theme.scss"), sampleStyle)
	writeFile(t, filepath.Join(root, "nested", "readme.txt"), "not a stylesheet")
	writeZip(t, filepath.Join(root, "nested", "kit.zip"), map[string]string{
		"kit/a.css":     sampleStyle,
		"kit/b.less":    sampleStyle,
		"kit/notes.txt": "skip me",
	})

	t.Run("directory", func(t *testing.T) {
		got, err := collect(t, ctx, root)
		if err != nil {
			t.Fatalf("process() error = %v", err)
		}
		want := []string{"nested/kit/a.css", "nested/kit/b.less", "nested/theme.scss", "site.css"}
		if !slices.Equal(got, want) {
			t.Errorf("visited %v, want %v", got, want)
		}
	})

	t.Run("single file", func(t *testing.T) {
		got, err := collect(t, ctx, filepath.Join(root, "nested", "theme.scss"))
		if err != nil {
			t.Fatalf("process() error = %v", err)
		}
		if !slices.Equal(got, []string{"theme.scss"}) {
			t.Errorf("visited %v", got)
		}
	})

	t.Run("archive", func(t *testing.T) {
		got, err := collect(t, ctx, filepath.Join(root, "nested", "kit.zip"))
		if err != nil {
			t.Fatalf("process() error = %v", err)
		}
		if !slices.Equal(got, []string{"kit/a.css", "kit/b.less"}) {
			t.Errorf("visited %v", got)
		}
	})

	t.Run("path inside archive", func(t *testing.T) {
		got, err := collect(t, ctx, filepath.Join(root, "nested", "kit.zip", "kit", "b.less"))
		if err != nil {
			t.Fatalf("process() error = %v", err)
		}
		if !slices.Equal(got, []string{"kit/b.less"}) {
			t.Errorf("visited %v", got)
		}
	})

	t.Run("not a stylesheet", func(t *testing.T) {
		if _, err := collect(t, ctx, filepath.Join(root, "nested", "readme.txt")); err == nil {
			t.Error("Expected error for non stylesheet source")
		}
	})

	t.Run("directory with tail", func(t *testing.T) {
		if _, err := collect(t, ctx, filepath.Join(root, "nested", "missing.css")); err == nil {
			t.Error("Expected error for missing file in existing directory")
		}
	})
}

func TestProcess_FailuresAreCollected(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.css"), sampleStyle)
	writeFile(t, filepath.Join(root, "b.css"), sampleStyle)
	writeFile(t, filepath.Join(root, "c.css"), sampleStyle)

	var visited int
	err := process(ctx, root, func(_ context.Context, s *source) error {
		visited++
		if s.name == "b.css" {
			return errors.New("boom")
		}
		return nil
	}, zap.NewNop())

	if visited != 3 {
		t.Errorf("visited %d files, want 3", visited)
	}
	if err == nil || !strings.Contains(err.Error(), "b.css: boom") {
		t.Errorf("expected collected error, got %v", err)
	}
}

func tokenize(t *testing.T, ctx context.Context, src, dst string) error {
	t.Helper()
	env := state.EnvFromContext(ctx)
	opts, err := env.ThemeOptions()
	if err != nil {
		t.Fatalf("ThemeOptions() error = %v", err)
	}
	return process(ctx, src, func(ctx context.Context, s *source) error {
		return tokenizeStyle(ctx, s, dst, opts, env.Log)
	}, env.Log)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unable to read %s: %v", path, err)
	}
	return string(data)
}

func TestTokenizeStyle_Props(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	src := filepath.Join(t.TempDir(), "site.css")
	writeFile(t, src, sampleStyle)
	dst := t.TempDir()

	if err := tokenize(t, ctx, src, dst); err != nil {
		t.Fatalf("tokenize error = %v", err)
	}

	got := readFile(t, filepath.Join(dst, "site.processed.css"))
	for _, want := range []string{
		"/* Start: Colors */",
		"--themer-card-color: #333;",
		"--themer-spacing-8px: 8px;",
		"margin: var(--themer-spacing-8px);",
		"color: var(--themer-card-color);",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output does not contain %q:\n%s", want, got)
		}
	}
	if readFile(t, src) != sampleStyle {
		t.Error("source must not be changed")
	}

	// second run refuses to overwrite
	if err := tokenize(t, ctx, src, dst); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected existing output error, got %v", err)
	}

	state.EnvFromContext(ctx).Overwrite = true
	if err := tokenize(t, ctx, src, dst); err != nil {
		t.Errorf("overwrite error = %v", err)
	}
}

func TestTokenizeStyle_Replace(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Replace = true

	src := filepath.Join(t.TempDir(), "site.scss")
	writeFile(t, src, sampleStyle)
	env.Cfg.Theme.OutputFormat = common.OutputFmtScss

	dst := t.TempDir()
	if err := tokenize(t, ctx, src, dst); err != nil {
		t.Fatalf("tokenize error = %v", err)
	}

	got := readFile(t, src)
	if !strings.Contains(got, "$themer-spacing-8px: 8px;") || !strings.Contains(got, "margin: $themer-spacing-8px;") {
		t.Errorf("source was not replaced:\n%s", got)
	}
	if entries, _ := os.ReadDir(dst); len(entries) != 0 {
		t.Errorf("nothing should be written into destination, got %d entries", len(entries))
	}
}

func TestTokenizeStyle_Js(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Theme.OutputFormat = common.OutputFmtJs

	src := filepath.Join(t.TempDir(), "site.css")
	writeFile(t, src, sampleStyle)
	dst := t.TempDir()

	if err := tokenize(t, ctx, src, dst); err != nil {
		t.Fatalf("tokenize error = %v", err)
	}

	style := readFile(t, filepath.Join(dst, "site.processed.css"))
	if strings.Contains(style, "export const theme") {
		t.Errorf("theme object must not be in stylesheet:\n%s", style)
	}
	if !strings.Contains(style, "margin: themer-spacing-8px;") {
		t.Errorf("unexpected stylesheet:\n%s", style)
	}

	js := readFile(t, filepath.Join(dst, "site.processed.theme.js"))
	if !strings.HasPrefix(js, "export const theme = {") || !strings.Contains(js, `"themer-spacing-8px": "8px"`) {
		t.Errorf("unexpected theme file:\n%s", js)
	}
}

func TestTokenizeStyle_Archive(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Replace = true // not possible for archive entries

	arc := filepath.Join(t.TempDir(), "kit.zip")
	writeZip(t, arc, map[string]string{"styles/site.css": sampleStyle})
	dst := t.TempDir()

	if err := tokenize(t, ctx, arc, dst); err != nil {
		t.Fatalf("tokenize error = %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "styles", "site.processed.css")); !strings.Contains(got, "var(--themer-spacing-8px)") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestTokenizeStyle_Diff(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Diff = true

	src := filepath.Join(t.TempDir(), "site.css")
	writeFile(t, src, sampleStyle)
	dst := t.TempDir()

	if err := tokenize(t, ctx, src, dst); err != nil {
		t.Fatalf("tokenize error = %v", err)
	}
	if entries, _ := os.ReadDir(dst); len(entries) != 0 {
		t.Errorf("diff mode must not write files, got %d entries", len(entries))
	}
}

func TestTokenizeStyle_BadInput(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "good.css"), sampleStyle)
	// invalid UTF-8 without known charset
	writeFile(t, filepath.Join(root, "bad.css"), ".a { content: \"\xe6\"; }")
	dst := t.TempDir()

	err := tokenize(t, ctx, root, dst)
	if err == nil || !strings.Contains(err.Error(), "bad.css") {
		t.Errorf("expected error for bad.css, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dst, "good.processed.css")); err != nil {
		t.Errorf("good file should still be processed: %v", err)
	}
}

func tokenizeCommand() *cli.Command {
	return &cli.Command{
		Name: "tokenize",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "prefix"},
			&cli.StringFlag{Name: "to"},
			&cli.StringFlag{Name: "charset"},
			&cli.BoolFlag{Name: "replace"},
			&cli.BoolFlag{Name: "overwrite"},
			&cli.BoolFlag{Name: "nodirs"},
			&cli.BoolFlag{Name: "diff"},
		},
		Action: Run,
	}
}

func TestRun(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "css", "site.css"), sampleStyle)
	dst := t.TempDir()

	err := tokenizeCommand().Run(ctx, []string{"tokenize", "--prefix", "ds", "--to", "scss", "--nodirs", root, dst})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	got := readFile(t, filepath.Join(dst, "site.processed.css"))
	if !strings.Contains(got, "$ds-spacing-8px: 8px;") {
		t.Errorf("unexpected output:\n%s", got)
	}
}

func TestRun_Errors(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	if err := tokenizeCommand().Run(ctx, []string{"tokenize"}); err == nil {
		t.Error("Run() expected error without source")
	}

	src := filepath.Join(t.TempDir(), "site.css")
	writeFile(t, src, sampleStyle)
	if err := tokenizeCommand().Run(ctx, []string{"tokenize", "--prefix", "a;b", src, t.TempDir()}); err == nil {
		t.Error("Run() expected error for bad prefix")
	}
}

func TestRunReport(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.css"), sampleStyle)
	writeFile(t, filepath.Join(root, "b.css"), ".x { color: #333; border: 1px solid red; }")
	out := t.TempDir()

	cmd := &cli.Command{
		Name:   "report",
		Flags:  []cli.Flag{&cli.StringFlag{Name: "dir"}, &cli.StringFlag{Name: "charset"}},
		Action: RunReport,
	}
	if err := cmd.Run(ctx, []string{"report", "--dir", out, root}); err != nil {
		t.Fatalf("RunReport() error = %v", err)
	}

	got := readFile(t, filepath.Join(out, "report-colors-general.csv"))
	if want := "Color,Occurrence\n#333,2\nred,1\n"; got != want {
		t.Errorf("colors report = %q, want %q", got, want)
	}
	got = readFile(t, filepath.Join(out, "report-spacings.csv"))
	if want := "Spacing,Occurrence\n8px,1\n"; got != want {
		t.Errorf("spacings report = %q, want %q", got, want)
	}
}
