// Package transaction queues filesystem operations for an install or
// uninstall and applies them as one unit.
//
// Nothing touches the destination tree until Commit. Commit first checks every
// queued operation without mutating anything and only then applies them in
// order. Rollback discards staged files and clears the bookkeeping recorded for
// them.
package transaction

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/conn-castle/pearl/internal/messages"
)

// ErrCommitRejected is wrapped by CommitError.
var ErrCommitRejected = errors.New("transaction rejected")

// CommitError lists every problem found while checking a commit. No operation
// was applied.
type CommitError struct {
	Problems []string
}

func (e *CommitError) Error() string {
	return fmt.Sprintf(messages.TxCommitFailedFmt, len(e.Problems)) + ":\n  " + strings.Join(e.Problems, "\n  ")
}

// Unwrap returns ErrCommitRejected.
func (e *CommitError) Unwrap() error { return ErrCommitRejected }

// Recorder receives the installed-file bookkeeping a commit produces.
type Recorder interface {
	SetInstalledAs(file string, installedAs string)
	SetDirtree(dir string)
	ResetDirtree()
}

// Log is an ordered list of pending operations bound to one Recorder.
type Log struct {
	sys      System
	logger   *log.Logger
	recorder Recorder
	ops      []Operation
	dirtree  map[string]bool
}

// New returns an empty log. A nil sys uses RealSystem; a nil logger discards.
func New(sys System, logger *log.Logger) *Log {
	if sys == nil {
		sys = RealSystem{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Log{sys: sys, logger: logger, dirtree: make(map[string]bool)}
}

// Begin starts a transaction recording into rec. Operations left over from an
// earlier transaction are rolled back first.
func (l *Log) Begin(rec Recorder) error {
	if rec == nil {
		return errors.New(messages.TxRecorderRequired)
	}
	if len(l.ops) > 0 {
		l.logger.Warn("rolling back stale transaction", "operations", len(l.ops))
		l.Rollback()
	}
	l.recorder = rec
	l.dirtree = make(map[string]bool)
	return nil
}

// Append queues op.
func (l *Log) Append(op Operation) {
	l.ops = append(l.ops, op)
}

// Len returns the number of queued operations.
func (l *Log) Len() int { return len(l.ops) }

// Pending returns a copy of the queued operations.
func (l *Log) Pending() []Operation {
	out := make([]Operation, len(l.ops))
	copy(out, l.ops)
	return out
}

// Commit checks every queued operation, then applies them in order. When a
// check fails nothing is applied, the queue is kept, and the caller is
// expected to Rollback.
func (l *Log) Commit() error {
	if len(l.ops) == 0 {
		return nil
	}
	if problems := l.check(); len(problems) > 0 {
		for _, p := range problems {
			l.logger.Error(p)
		}
		return &CommitError{Problems: problems}
	}
	n := len(l.ops)
	for _, op := range l.ops {
		l.apply(op)
	}
	l.logger.Info("committed file operations", "count", n)
	l.ops = nil
	return nil
}

func (l *Log) check() []string {
	var problems []string
	for _, op := range l.ops {
		switch op.Kind {
		case KindRename:
			if _, err := l.sys.Stat(op.Path); err != nil {
				problems = append(problems, fmt.Sprintf(messages.TxRenameSourceMissingFmt, op.Path))
			}
			if !l.sys.Writable(path.Dir(op.Target)) {
				problems = append(problems, fmt.Sprintf(messages.TxPermissionDeniedFmt, op.Kind, op.Target))
			}
		case KindChmod:
			if !l.sys.Writable(op.Path) {
				problems = append(problems, fmt.Sprintf(messages.TxChmodDeniedFmt, op.Path, op.Mode))
			}
		case KindDelete:
			if _, err := l.sys.Stat(op.Path); err != nil {
				l.logger.Warn(fmt.Sprintf(messages.TxDeleteMissingFmt, op.Path))
				continue
			}
			if !l.sys.Writable(path.Dir(op.Path)) {
				problems = append(problems, fmt.Sprintf(messages.TxPermissionDeniedFmt, op.Kind, op.Path))
			}
		}
	}
	return problems
}

func (l *Log) apply(op Operation) {
	switch op.Kind {
	case KindRename:
		if _, err := l.sys.Stat(op.Target); err == nil {
			_ = l.sys.Remove(op.Target)
		}
		l.trace(op, l.sys.Rename(op.Path, op.Target))
	case KindChmod:
		l.trace(op, l.sys.Chmod(op.Path, op.Mode))
	case KindDelete:
		l.trace(op, l.sys.Remove(op.Path))
	case KindRmdir:
		l.trace(op, l.sys.Remove(op.Path))
	case KindInstalledAs:
		l.recordInstalled(op)
	}
}

// recordInstalled stores the destination and, once per directory, the
// directory plus each ancestor between it and the role directory.
func (l *Log) recordInstalled(op Operation) {
	if l.recorder == nil {
		return
	}
	l.recorder.SetInstalledAs(op.File, op.InstalledAs)
	dir := path.Dir(op.InstalledAs)
	if l.dirtree[dir] {
		return
	}
	l.dirtree[dir] = true
	l.recorder.SetDirtree(dir)
	for rel := op.RelDir; rel != "" && rel != "/" && rel != "\\" && rel != "."; rel = path.Dir(rel) {
		p := path.Join(op.BaseDir, rel)
		l.recorder.SetDirtree(p)
		l.dirtree[p] = true
	}
}

func (l *Log) trace(op Operation, err error) {
	if err != nil {
		l.logger.Warn("file operation failed", "op", op.String(), "error", err)
		return
	}
	l.logger.Debug("+ " + op.String())
}

// Rollback discards staged copies, removes directories created for them when
// empty, and clears recorded destinations. The queue is emptied.
func (l *Log) Rollback() {
	var created []string
	for _, op := range l.ops {
		switch op.Kind {
		case KindRename:
			l.trace(Delete(op.Path), l.sys.Remove(op.Path))
		case KindMkdir:
			created = append(created, op.Path)
		case KindInstalledAs:
			if l.recorder != nil {
				l.recorder.SetInstalledAs(op.File, "")
			}
		}
	}
	for i := len(created) - 1; i >= 0; i-- {
		if err := l.sys.Remove(created[i]); err == nil {
			l.logger.Debug("+ rmdir " + created[i])
		}
	}
	if l.recorder != nil {
		l.recorder.ResetDirtree()
	}
	l.ops = nil
	l.dirtree = make(map[string]bool)
}
