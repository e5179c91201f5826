package filesystem

import (
	"io"
	"os"
	"time"

	"github.com/docketworks/platform/errors"
	"github.com/docketworks/platform/resource"
)

// Entry is one directory member as seen at scan time.
type Entry struct {
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// DirCursor is a forward-only cursor over a directory's entries. Obtain
// one from OpenDir; the zero value is not usable.
//
// Iteration follows the scanner contract: Next reports whether an entry
// was loaded, and once it returns false, Err separates clean exhaustion
// (nil) from a mid-scan failure. The cursor cannot be restarted.
//
// A DirCursor is not safe for concurrent use.
type DirCursor struct {
	f      *os.File
	path   string
	cur    Entry
	err    error
	handle resource.Handle
	done   bool
	closed bool
}

// OpenDir opens path for iteration. A missing path, or a path that is
// not a directory, reports not_found.
func OpenDir(path string) (*DirCursor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, mapOSError("fs.opendir", path, err)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.CodeNotFound, "fs.opendir").Path(path).Detail("not a directory").Build()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, mapOSError("fs.opendir", path, err)
	}

	return &DirCursor{
		f:      f,
		path:   path,
		handle: resource.Default().Register(resource.KindDir, path),
	}, nil
}

// Next loads the next entry and reports whether one was available. Order
// is whatever the OS returns; no sorting is applied.
func (d *DirCursor) Next() bool {
	if d.err != nil || d.done {
		return false
	}
	if d.closed {
		d.err = errors.Closed("fs.readdir", "directory cursor")
		return false
	}

	ents, err := d.f.ReadDir(1)
	if err == io.EOF {
		d.done = true
		return false
	}
	if err != nil {
		d.err = mapOSError("fs.readdir", d.path, err)
		return false
	}
	if len(ents) == 0 {
		d.done = true
		return false
	}

	ent := ents[0]
	d.cur = Entry{Name: ent.Name(), IsDir: ent.IsDir()}
	// The entry can vanish between the scan and the stat; keep the name
	// and leave size and mtime zero when that happens.
	if info, err := ent.Info(); err == nil {
		d.cur.Size = info.Size()
		d.cur.ModTime = info.ModTime()
	}
	return true
}

// Entry returns the entry loaded by the most recent successful Next.
func (d *DirCursor) Entry() Entry {
	return d.cur
}

// Err returns the failure that stopped iteration, or nil when the
// directory was cleanly exhausted.
func (d *DirCursor) Err() error {
	return d.err
}

// Close releases the directory handle.
func (d *DirCursor) Close() error {
	if d.closed {
		return errors.Closed("fs.closedir", "directory cursor")
	}
	d.closed = true
	resource.Default().Release(d.handle)
	if err := d.f.Close(); err != nil {
		return mapOSError("fs.closedir", d.path, err)
	}
	return nil
}
