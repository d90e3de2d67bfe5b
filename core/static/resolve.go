package static

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// maxNameLen is the common per-component limit (NAME_MAX) of local filesystems.
const maxNameLen = 255

// VerdictKind classifies the outcome of resolving a request path.
type VerdictKind uint8

const (
	VerdictMissing VerdictKind = iota
	VerdictFile
	VerdictDirectory
	VerdictRejected
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictMissing:
		return "missing"
	case VerdictFile:
		return "file"
	case VerdictDirectory:
		return "directory"
	case VerdictRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// RejectReason explains a VerdictRejected.
type RejectReason uint8

const (
	ReasonNone RejectReason = iota
	ReasonDotfile
	ReasonNameTooLong
)

func (r RejectReason) String() string {
	switch r {
	case ReasonDotfile:
		return "dotfile"
	case ReasonNameTooLong:
		return "name_too_long"
	default:
		return "none"
	}
}

// Verdict is the classified result of resolving one request path.
// Path and Info are set for file and directory verdicts only.
type Verdict struct {
	Kind   VerdictKind
	Path   string
	Info   fs.FileInfo
	Reason RejectReason
}

// Found reports whether the verdict points at an existing entry.
func (v Verdict) Found() bool {
	return v.Kind == VerdictFile || v.Kind == VerdictDirectory
}

type resolver struct {
	root          string
	realRoot      string
	dotfiles      bool
	followSymlink bool
}

func newResolver(root string, dotfiles, followSymlink bool) (*resolver, error) {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("static: resolve root %s: %w", root, err)
	}
	return &resolver{
		root:          root,
		realRoot:      realRoot,
		dotfiles:      dotfiles,
		followSymlink: followSymlink,
	}, nil
}

// resolve maps a slash-separated path relative to the root to a verdict.
// Only unexpected filesystem failures are returned as errors.
func (rs *resolver) resolve(rel string) (Verdict, error) {
	rel = strings.Trim(rel, "/")

	// Policy checks run before any filesystem call so that hidden entries
	// cannot be probed through timing or error differences.
	if rel != "" {
		for _, seg := range strings.Split(rel, "/") {
			if !rs.dotfiles && strings.HasPrefix(seg, ".") {
				return Verdict{Kind: VerdictRejected, Reason: ReasonDotfile}, nil
			}
			if len(seg) > maxNameLen {
				return Verdict{Kind: VerdictRejected, Reason: ReasonNameTooLong}, nil
			}
		}
	}

	full := filepath.Join(rs.root, filepath.FromSlash(rel))
	if err := validatePathSecurity(rs.root, full); err != nil {
		return Verdict{Kind: VerdictMissing}, nil
	}

	info, err := os.Stat(full)
	if err != nil {
		if isMissing(err) {
			return Verdict{Kind: VerdictMissing}, nil
		}
		return Verdict{}, fmt.Errorf("static: stat %s: %w", full, err)
	}

	if !rs.followSymlink {
		real, err := filepath.EvalSymlinks(full)
		if err != nil {
			if isMissing(err) {
				return Verdict{Kind: VerdictMissing}, nil
			}
			return Verdict{}, fmt.Errorf("static: eval symlinks %s: %w", full, err)
		}
		if validatePathSecurity(rs.realRoot, real) != nil {
			return Verdict{Kind: VerdictMissing}, nil
		}
	}

	v := Verdict{Kind: VerdictFile, Path: full, Info: info}
	if info.IsDir() {
		v.Kind = VerdictDirectory
	}
	return v, nil
}

// isMissing reports errors that mean "nothing there" from the client's point
// of view. Overlong names and non-directory path components are client input
// problems and must never surface as server errors.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, syscall.ENOTDIR) ||
		errors.Is(err, syscall.ENAMETOOLONG) ||
		errors.Is(err, syscall.ELOOP)
}
