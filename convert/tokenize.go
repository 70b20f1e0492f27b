package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"themer/common"
	"themer/config"
	"themer/css"
	"themer/state"
	"themer/theme"
)

// Run is the action of "tokenize" command.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("tokenize")

	src, dst, err := resolveArgs(cmd.Args().Slice(), log)
	if err != nil {
		return err
	}

	if cmd.IsSet("prefix") {
		prefix := strings.TrimSpace(cmd.String("prefix"))
		if strings.ContainsAny(prefix, ";:{}()") {
			return fmt.Errorf("bad token prefix %q", prefix)
		}
		env.Cfg.Theme.Prefix = prefix
	}
	if cmd.IsSet("to") {
		format, err := common.ParseOutputFmt(cmd.String("to"))
		if err != nil {
			log.Warn("Unknown output format requested, using configured one", zap.Error(err), zap.Stringer("format", env.Cfg.Theme.OutputFormat))
		} else {
			env.Cfg.Theme.OutputFormat = format
		}
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")
	env.Replace, env.Diff = cmd.Bool("replace"), cmd.Bool("diff")
	env.CodePage = parseCharset(cmd.String("charset"), log)

	if env.Replace && cmd.Args().Len() > 1 {
		log.Warn("Destination is ignored when replacing sources", zap.String("destination", dst))
	}

	opts, err := env.ThemeOptions()
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", opts.Format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, func(ctx context.Context, s *source) error {
		return tokenizeStyle(ctx, s, dst, opts, log)
	}, log)
}

// tokenizeStyle processes single stylesheet and writes results.
func tokenizeStyle(ctx context.Context, s *source, dst string, opts theme.Options, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Info("Tokenizing", zap.String("from", s.name))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Tokenizing ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("tokenizing panic: %v", r)
		} else if rerr == nil {
			log.Info("Tokenizing completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	sheet, err := css.NewParser(log).Parse(css.MakeCommentsSafe(s.data), s.name)
	if err != nil {
		return fmt.Errorf("unable to parse stylesheet: %w", err)
	}
	for _, w := range sheet.Warnings {
		log.Warn("Stylesheet problem", zap.String("file", s.name), zap.String("problem", w))
	}

	res, err := theme.Process(sheet, opts, log)
	if err != nil {
		return fmt.Errorf("unable to extract tokens: %w", err)
	}
	log.Debug("Tokens extracted", zap.String("file", s.name), zap.Int("tokens", res.Registry.Len()), zap.Int("rewritten", res.Rewritten))

	style, themeText := res.String(), ""
	if opts.Format.ForStructure() {
		style, themeText = res.Stylesheet, res.Block
	}

	if env.Diff {
		if _, err := writeDiff(os.Stdout, s.name, string(s.data), style, config.EnableColorOutput(os.Stdout)); err != nil {
			return fmt.Errorf("unable to show changes: %w", err)
		}
		outputName = "(diff)"
		return nil
	}

	replace := env.Replace && s.path != ""
	if env.Replace && !replace {
		log.Warn("Unable to replace file inside archive, writing separately", zap.String("file", s.name))
	}
	if replace {
		outputName = s.path
	} else {
		outputName = buildOutputPath(s.name, dst, env)
	}

	if err := writeOutput(outputName, []byte(style), env.Overwrite || replace, log); err != nil {
		return err
	}
	env.Rpt.StoreData(filepath.Join("result", s.name), []byte(style))

	if themeText != "" {
		themeName := themeFilePath(outputName, env)
		if err := writeOutput(themeName, []byte(themeText), env.Overwrite || replace, log); err != nil {
			return err
		}
		env.Rpt.StoreData(filepath.Join("result", themeFilePath(s.name, env)), []byte(themeText))
	}
	return nil
}

// writeOutput writes data to file creating directories as needed. Existing
// files are only replaced when overwrite is allowed.
func writeOutput(name string, data []byte, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(name); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", name)
		}
		log.Debug("Overwriting existing file", zap.String("file", name))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(name, data, 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}
	return nil
}
