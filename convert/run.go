package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"themer/archive"
	"themer/state"
)

// source is a single stylesheet found while walking command line source.
type source struct {
	name string // path relative to the source root, always includes file name
	path string // file system path, empty for archive entries
	data []byte // UTF-8 text
}

type sourceFunc func(ctx context.Context, src *source) error

// walker feeds every stylesheet it finds to fn. Failures of individual
// stylesheets do not stop the walk, they are logged and collected.
type walker struct {
	log   *zap.Logger
	cp    encoding.Encoding
	fn    sourceFunc
	count int
	errs  error
}

func (w *walker) fail(name string, err error, fields ...zap.Field) {
	w.log.Error("Unable to process file", append([]zap.Field{zap.String("file", name), zap.Error(err)}, fields...)...)
	w.errs = multierr.Append(w.errs, fmt.Errorf("%s: %w", name, err))
}

func (w *walker) visit(ctx context.Context, name, path string, r io.Reader) {
	w.count++
	data, err := readSource(r, w.cp)
	if err != nil {
		w.fail(name, err)
		return
	}
	if err := w.fn(ctx, &source{name: name, path: path, data: data}); err != nil {
		w.fail(name, err)
	}
}

// parseCharset returns encoding forced for sources which are neither UTF-8
// nor marked otherwise.
func parseCharset(cp string, log *zap.Logger) encoding.Encoding {
	if len(cp) == 0 {
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(cp)
	if err != nil || enc == nil {
		log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
		return nil
	}
	n, _ := ianaindex.IANA.Name(enc)
	log.Debug("Forcefully converting all non UTF-8 sources", zap.String("charset", n))
	return enc
}

// resolveArgs returns absolute source and destination paths from command
// arguments, destination defaults to working directory.
func resolveArgs(args []string, log *zap.Logger) (string, string, error) {
	if len(args) == 0 || len(args[0]) == 0 {
		return "", "", errors.New("no input source has been specified")
	}
	src, err := filepath.Abs(args[0])
	if err != nil {
		return "", "", err
	}

	var dst string
	if len(args) > 1 {
		dst = args[1]
	}
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return "", "", fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return "", "", err
	}
	if len(args) > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", args[2:]))
	}
	return src, dst, nil
}

// process determines the input type (directory, archive, path inside archive
// or single file) and walks it calling fn for every stylesheet.
func process(ctx context.Context, src string, fn sourceFunc, log *zap.Logger) error {
	w := &walker{log: log, fn: fn, cp: state.EnvFromContext(ctx).CodePage}

	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := w.dir(ctx, head); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := w.archive(ctx, head, tail, ""); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		if isStyleName(head) && len(tail) == 0 {
			file, err := os.Open(head)
			if err != nil {
				return err
			}
			defer file.Close()
			w.visit(ctx, filepath.Base(head), head, file)
			break
		}
		return fmt.Errorf("input was not recognized as stylesheet (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	if w.count == 0 {
		log.Warn("Nothing to process", zap.String("source", src))
	}
	return w.errs
}

// dir walks directory tree finding stylesheets and archives.
func (w *walker) dir(ctx context.Context, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			w.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			w.log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}

		isArchive, err := isArchiveFile(path)
		if err != nil {
			w.log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if isArchive {
			if err := w.archive(ctx, path, "", filepath.Dir(rel)); err != nil {
				if ctx.Err() != nil {
					return err
				}
				w.fail(rel, err)
			}
			return nil
		}

		if !isStyleName(path) {
			w.log.Debug("Skipping file, not recognized as stylesheet or archive", zap.String("file", path))
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			w.fail(rel, err)
			return nil
		}
		defer file.Close()
		w.visit(ctx, rel, path, file)
		return nil
	})
}

// archive walks all stylesheets inside archive under "pathIn". Found names
// are placed under "pathOut".
func (w *walker) archive(ctx context.Context, path, pathIn, pathOut string) error {
	prefix := filepath.ToSlash(pathIn)
	match := func(name string) bool {
		return strings.HasPrefix(name, prefix) && isStyleName(name)
	}

	return archive.Walk(path, match, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := f.Name
		if w.cp != nil && f.NonUTF8 {
			// forcing zip file name encoding
			if n, err := w.cp.NewDecoder().String(name); err == nil {
				name = n
			} else {
				n, _ = ianaindex.IANA.Name(w.cp)
				w.log.Warn("Unable to convert archive name from specified encoding",
					zap.String("charset", n), zap.String("path", name), zap.Error(err))
			}
		}
		name = filepath.Join(pathOut, filepath.FromSlash(name))

		data, err := archive.ReadFile(f)
		if err != nil {
			w.fail(name, err, zap.String("archive", arc))
			return nil
		}
		w.visit(ctx, name, "", bytes.NewReader(data))
		return nil
	})
}
