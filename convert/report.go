package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"themer/css"
	"themer/report"
	"themer/state"
)

// RunReport is the action of "report" command. Statistics of all found
// stylesheets are accumulated into single set of CSV files.
func RunReport(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("report")

	if cmd.Args().Len() == 0 {
		return errors.New("no input source has been specified")
	}
	src, err := filepath.Abs(cmd.Args().First())
	if err != nil {
		return err
	}

	dir := cmd.String("dir")
	if len(dir) == 0 {
		dir = env.Cfg.Stats.Directory
	}
	if len(dir) == 0 || dir == "." {
		if dir, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	env.CodePage = parseCharset(cmd.String("charset"), log)

	log.Info("Collecting statistics", zap.String("source", src), zap.String("destination", dir))
	defer func(start time.Time) {
		log.Info("Statistics completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	rpt := report.New()
	perr := process(ctx, src, func(_ context.Context, s *source) error {
		sheet, err := css.NewParser(log).Parse(css.MakeCommentsSafe(s.data), s.name)
		if err != nil {
			return fmt.Errorf("unable to parse stylesheet: %w", err)
		}
		rpt.Add(sheet)
		return nil
	}, log)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	files, werr := rpt.Write(dir, log)
	for _, f := range files {
		log.Info("CSV written", zap.String("file", f))
		env.Rpt.Store(filepath.Join("stats", filepath.Base(f)), f)
	}
	return multierr.Append(perr, werr)
}
