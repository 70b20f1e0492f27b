package state

import (
	"fmt"
	"time"

	"themer/theme"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
	}
}

// ThemeOptions converts loaded configuration into options of theme
// processing.
func (e *LocalEnv) ThemeOptions() (theme.Options, error) {
	if e.Cfg == nil {
		return theme.Options{}, fmt.Errorf("configuration is not loaded")
	}

	opts := theme.Options{
		Prefix:          e.Cfg.Theme.Prefix,
		Format:          e.Cfg.Theme.OutputFormat,
		SectionComments: e.Cfg.Theme.SectionComments,
	}
	for _, name := range e.Cfg.Theme.Sort {
		cat, err := theme.ParseCategory(name)
		if err != nil {
			return theme.Options{}, fmt.Errorf("bad sort configuration: %w", err)
		}
		opts.Sort = append(opts.Sort, cat)
	}
	return opts, nil
}
