package packager

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Trigger hands a finished archive to its consumer.
type Trigger interface {
	Deliver(ctx context.Context, name string, data []byte) error
}

// DirTrigger saves archives into Dir, creating it when needed. A name
// delivered more than once through the same trigger gets a numeric suffix
// ("Intro-2.zip") instead of replacing the earlier archive. A DirTrigger is
// not safe for concurrent use.
type DirTrigger struct {
	Dir string
	// Saved holds the path of the last written file.
	Saved string

	delivered map[string]bool
}

func (t *DirTrigger) Deliver(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(t.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	dest := filepath.Join(t.Dir, t.uniqueName(filepath.Base(name)))
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("moving archive into place: %w", err)
	}
	t.Saved = dest
	return nil
}

func (t *DirTrigger) uniqueName(base string) string {
	if t.delivered == nil {
		t.delivered = map[string]bool{}
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := base
	for n := 2; t.delivered[name]; n++ {
		name = fmt.Sprintf("%s-%d%s", stem, n, ext)
	}
	t.delivered[name] = true
	return name
}

// WriterTrigger streams archives into W. Before, when set, runs ahead of
// the write, e.g. to set response headers.
type WriterTrigger struct {
	W      io.Writer
	Before func(name string, size int)
}

func (t *WriterTrigger) Deliver(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.Before != nil {
		t.Before(name, len(data))
	}
	if _, err := t.W.Write(data); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}
	return nil
}
