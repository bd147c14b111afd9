package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/taxotree/pkg/errors"
	"github.com/matzehuels/taxotree/pkg/records"
)

// File reads a delimited table from disk on every fetch.
type File struct {
	name      string
	path      string
	delimiter rune
	shape     records.Shape
}

// NewFile returns a file source. A zero delimiter is picked from the
// extension: comma for .csv, tab otherwise.
func NewFile(name, path string, delimiter rune, shape records.Shape) *File {
	if delimiter == 0 {
		delimiter = DelimiterFor(path)
	}
	return &File{name: name, path: path, delimiter: delimiter, shape: shape}
}

// FromPath returns a file source named after the file's base name.
func FromPath(path string, shape records.Shape) *File {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewFile(base, path, 0, shape)
}

// DelimiterFor guesses the delimiter from a file extension.
func DelimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ','
	}
	return records.DefaultDelimiter
}

func (f *File) Name() string { return f.name }

// Path returns the file location.
func (f *File) Path() string { return f.path }

func (f *File) Fetch(ctx context.Context) (*records.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NoData(f.name, err)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", f.path)
	}
	defer fh.Close()

	b, err := records.ParseDelimited(fh, f.delimiter, f.shape)
	if err != nil {
		return nil, err
	}
	b.Source = f.name
	return b, nil
}
