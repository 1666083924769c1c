package logger

import (
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
)

// ReopenableFile is a zapcore.WriteSyncer whose underlying file can be
// reopened at runtime, so logrotate can move the log away and signal the
// daemon instead of restarting it.
type ReopenableFile struct {
	path string
	cur  atomic.Value
}

func NewReopenableFile(path string) (*ReopenableFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f := &ReopenableFile{path: path}
	if err := f.Reopen(); err != nil {
		return nil, err
	}
	return f, nil
}

// Reopen closes the current file handle and opens the configured path
// again, creating it when missing.
func (f *ReopenableFile) Reopen() error {
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	old := f.cur.Swap(file)
	if old != nil {
		return old.(*os.File).Close()
	}
	return nil
}

// ReopenOnSIGHUP reopens the log file whenever the process receives SIGHUP.
// The returned stop function uninstalls the handler.
func (f *ReopenableFile) ReopenOnSIGHUP() (stop func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGHUP)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-c:
				_ = f.Reopen()
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(c)
		close(done)
	}
}

func (f *ReopenableFile) file() *os.File {
	return f.cur.Load().(*os.File)
}

func (f *ReopenableFile) Write(p []byte) (int, error) {
	return f.file().Write(p)
}

func (f *ReopenableFile) Sync() error {
	return f.file().Sync()
}

func (f *ReopenableFile) Close() error {
	return f.file().Close()
}
