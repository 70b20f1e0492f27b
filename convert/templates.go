package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"themer/config"
	"themer/state"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context string
	Name    string // source file name without extension
	Ext     string // source file extension including dot
	Dir     string // source directory relative to the source root
	Format  string
	Prefix  string
}

func newValues(name config.TemplateFieldName, src string, env *state.LocalEnv) Values {
	base := filepath.Base(src)
	ext := filepath.Ext(base)
	dir := filepath.ToSlash(filepath.Dir(src))
	if dir == "." {
		dir = ""
	}
	return Values{
		Context: string(name),
		Name:    strings.TrimSuffix(base, ext),
		Ext:     ext,
		Dir:     dir,
		Format:  env.Cfg.Theme.OutputFormat.String(),
		Prefix:  env.Cfg.Theme.Prefix,
	}
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
