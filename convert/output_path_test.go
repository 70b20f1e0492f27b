package convert

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"themer/common"
	"themer/config"
	"themer/state"
)

func setupTestEnvForOutputPath(t *testing.T, noDirs, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Output.Transliterate = transliterate
	cfg.Output.NameTemplate = template

	return &state.LocalEnv{
		Log:    zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1))),
		Cfg:    cfg,
		NoDirs: noDirs,
	}
}

func TestBuildOutputPath(t *testing.T) {
	tests := []struct {
		name          string
		src           string
		noDirs        bool
		transliterate bool
		template      string
		want          string
	}{
		{"no dirs", "kit/styles/site.css", true, false, "", filepath.Join("/output", "site.processed.css")},
		{"with dirs", "kit/styles/site.css", false, false, "", filepath.Join("/output", "kit", "styles", "site.processed.css")},
		{"scss kept", "theme.scss", false, false, "", filepath.Join("/output", "theme.processed.scss")},
		{"transliterate", "Über Site.css", true, true, "", filepath.Join("/output", "uber-site.processed.css")},
		{"template", "styles/site.css", true, false, "{{ .Name }}-{{ .Format }}", filepath.Join("/output", "site-props.css")},
		{"template with prefix", "site.pcss", true, false, "{{ .Prefix }}_{{ .Name }}", filepath.Join("/output", "themer_site.pcss")},
		{"template subdirs", "site.css", true, false, "{{ .Format }}/{{ .Name | upper }}", filepath.Join("/output", "props", "SITE.css")},
		{"template keeps dirs", "a/site.css", false, false, "{{ .Name }}.tokens", filepath.Join("/output", "a", "site.tokens.css")},
		{"template climbing up", "site.css", true, false, "../../{{ .Name }}", filepath.Join("/output", "site.css")},
		{"template empty result", "site.css", true, false, "{{ if false }}x{{ end }}", filepath.Join("/output", "site.processed.css")},
		{"template broken", "site.css", true, false, "{{ .Name", filepath.Join("/output", "site.processed.css")},
		{"template unknown value", "site.css", true, false, "{{ .Title }}", filepath.Join("/output", "site.processed.css")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.noDirs, tt.transliterate, tt.template)
			if got := buildOutputPath(tt.src, "/output", env); got != tt.want {
				t.Errorf("buildOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestThemeFilePath(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")
	if got, want := themeFilePath(filepath.Join("out", "site.processed.css"), env), filepath.Join("out", "site.processed.theme.js"); got != want {
		t.Errorf("themeFilePath() = %q, want %q", got, want)
	}
	env.Cfg.Output.ThemeFileExt = ".tokens.mjs"
	if got, want := themeFilePath("site.css", env), "site.tokens.mjs"; got != want {
		t.Errorf("themeFilePath() = %q, want %q", got, want)
	}
}

func TestExpandTemplate(t *testing.T) {
	env := setupTestEnvForOutputPath(t, true, false, "")
	env.Cfg.Theme.OutputFormat = common.OutputFmtScss

	values := newValues(config.NameTemplateFieldName, filepath.Join("kit", "site.css"), env)
	if values.Name != "site" || values.Ext != ".css" || values.Dir != "kit" || values.Format != "scss" || values.Prefix != "themer" {
		t.Errorf("newValues() = %+v", values)
	}

	got, err := expandTemplate(config.NameTemplateFieldName, "{{ .Context }}:{{ .Dir }}/{{ .Name }}{{ .Ext }}", values)
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if want := "name_template:kit/site.css"; got != want {
		t.Errorf("expandTemplate() = %q, want %q", got, want)
	}

	if _, err := expandTemplate(config.NameTemplateFieldName, "{{ .Name", values); err == nil {
		t.Error("expandTemplate() expected parse error")
	}

	top := newValues(config.NameTemplateFieldName, "site.css", env)
	if top.Dir != "" {
		t.Errorf("Dir = %q, want empty for top level source", top.Dir)
	}
}
