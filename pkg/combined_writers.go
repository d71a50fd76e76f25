package pkg

import (
	"io"

	"go.uber.org/multierr"
)

var _ io.WriteCloser = (*CombinedWriter)(nil)

// CombinedWriter writes to all its writers, e.g. stdout and a rotated log file.
// A failing writer does not stop the others.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: append([]io.Writer(nil), writers...),
	}
}

// Write returns the total number of bytes written over all writers.
func (cw *CombinedWriter) Write(p []byte) (n int, err error) {
	for _, w := range cw.Writers {
		written, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		n += written
	}
	return n, err
}

// Close closes every writer that is an io.Closer.
func (cw *CombinedWriter) Close() error {
	var err error
	for _, w := range cw.Writers {
		if c, ok := w.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}
