package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"themer/config"
	"themer/state"
)

const processedSuffix = ".processed"

// buildOutputPath returns output file path for the source. "src" is the
// source path relative to the source root (always including file name). The
// name comes either from default naming scheme or from user-defined template,
// source directory structure is kept unless requested otherwise. Original
// extension is always preserved.
func buildOutputPath(src, dst string, env *state.LocalEnv) string {
	outDir := determineOutputDir(src, dst, env)
	ext := filepath.Ext(src)

	if env.Cfg.Output.NameTemplate == "" {
		return filepath.Join(outDir, buildDefaultFileName(src, env))
	}

	expanded, err := expandTemplate(config.NameTemplateFieldName, env.Cfg.Output.NameTemplate, newValues(config.NameTemplateFieldName, src, env))
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return filepath.Join(outDir, buildDefaultFileName(src, env))
	}
	expanded = strings.TrimSpace(filepath.FromSlash(expanded))
	if expanded == "" {
		// fallback to default name if template expanded to nothing
		return filepath.Join(outDir, buildDefaultFileName(src, env))
	}
	return assemblePathWithSubdirs(outDir, expanded, ext, env)
}

// themeFilePath returns path of the theme file accompanying stylesheet.
func themeFilePath(stylePath string, env *state.LocalEnv) string {
	return strings.TrimSuffix(stylePath, filepath.Ext(stylePath)) + env.Cfg.Output.ThemeFileExt
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	return filepath.Join(dst, filepath.Dir(src))
}

func buildDefaultFileName(src string, env *state.LocalEnv) string {
	ext := filepath.Ext(src)
	return cleanPathSegment(strings.TrimSuffix(filepath.Base(src), ext), env) + processedSuffix + ext
}

// assemblePathWithSubdirs takes an expanded template name (which may contain
// path separators for subdirectories) and assembles it into a full output path,
// cleaning and transliterating segments as needed
func assemblePathWithSubdirs(outDir, expanded, ext string, env *state.LocalEnv) string {
	segments := splitPath(expanded)
	if len(segments) == 0 {
		return outDir
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, segment := range segments[:len(segments)-1] {
		parts = append(parts, cleanPathSegment(segment, env))
	}
	parts = append(parts, cleanPathSegment(segments[len(segments)-1], env)+ext)
	return filepath.Join(parts...)
}

// splitPath breaks path into non-empty segments, "." and ".." are dropped so
// expanded names never leave output directory.
func splitPath(path string) []string {
	segments := make([]string, 0, 8)
	for s := range strings.SplitSeq(path, string(os.PathSeparator)) {
		s = strings.TrimSpace(s)
		if s == "" || s == "." || s == ".." {
			continue
		}
		segments = append(segments, s)
	}
	return slices.Clip(segments)
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Output.Transliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
