package static

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrListingGone is returned when the directory disappeared between
// resolution and enumeration.
var ErrListingGone = errors.New("static: directory no longer exists")

// statConcurrency bounds parallel per-child stat calls for one listing.
const statConcurrency = 16

// EntryKind classifies a listing entry.
type EntryKind uint8

const (
	KindDirectory EntryKind = iota + 1
	KindFile
)

func (k EntryKind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Entry is one visible child of a listed directory.
// Size is meaningful only for files.
type Entry struct {
	Name    string
	Kind    EntryKind
	ModTime time.Time
	Size    int64
}

// Listing holds the visible children of one directory, directories and
// files kept apart so renderers can group them.
type Listing struct {
	Directories []Entry
	Files       []Entry
}

// Entries returns directories followed by files.
func (l Listing) Entries() []Entry {
	out := make([]Entry, 0, len(l.Directories)+len(l.Files))
	out = append(out, l.Directories...)
	return append(out, l.Files...)
}

// Len returns the total number of entries.
func (l Listing) Len() int { return len(l.Directories) + len(l.Files) }

type listingPolicy struct {
	dotfiles      bool
	followSymlink bool
	location      *time.Location
}

// buildListing enumerates the direct children of dir.
func buildListing(ctx context.Context, dir string, policy listingPolicy) (Listing, error) {
	children, err := os.ReadDir(dir)
	if err != nil {
		if isMissing(err) {
			return Listing{}, ErrListingGone
		}
		return Listing{}, fmt.Errorf("static: read dir %s: %w", dir, err)
	}

	loc := policy.location
	if loc == nil {
		loc = time.UTC
	}

	entries := make([]*Entry, len(children))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statConcurrency)

	for i, child := range children {
		name := child.Name()
		if !policy.dotfiles && strings.HasPrefix(name, ".") {
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e, err := statChild(filepath.Join(dir, name), policy.followSymlink)
			if err != nil || e == nil {
				return err
			}
			e.Name = name
			e.ModTime = e.ModTime.In(loc).Truncate(time.Second)
			entries[i] = e
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Listing{}, err
	}

	var l Listing
	for _, e := range entries {
		switch {
		case e == nil:
		case e.Kind == KindDirectory:
			l.Directories = append(l.Directories, *e)
		default:
			l.Files = append(l.Files, *e)
		}
	}
	return l, nil
}

// statChild returns nil without error for children that must be skipped:
// symlinks when not following, dangling links, and entries removed mid-scan.
func statChild(full string, followSymlink bool) (*Entry, error) {
	info, err := os.Lstat(full)
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("static: lstat %s: %w", full, err)
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		if !followSymlink {
			return nil, nil
		}
		info, err = os.Stat(full)
		if err != nil {
			if isMissing(err) || errors.Is(err, syscall.ELOOP) {
				return nil, nil
			}
			return nil, fmt.Errorf("static: stat %s: %w", full, err)
		}
	}

	e := &Entry{ModTime: info.ModTime()}
	if info.IsDir() {
		e.Kind = KindDirectory
	} else {
		e.Kind = KindFile
		e.Size = info.Size()
	}
	return e, nil
}
