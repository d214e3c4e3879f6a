// Package eventlog writes and reads the append-only check log.
//
// Each line is "2006-01-02 15:04:05 [LEVEL] message". The file is never
// rotated or truncated by this package.
package eventlog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Level is the severity of an event-log line
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

const timeLayout = "2006-01-02 15:04:05"

// FollowInterval is how often Follow polls the file for new lines
var FollowInterval = 500 * time.Millisecond

// Logger appends timestamped lines to the event log
type Logger struct {
	file *os.File
	out  *log.Logger
	now  func() time.Time
}

// Open opens path for appending, creating it and its directory if needed
func Open(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}

	return &Logger{
		file: file,
		out:  log.New(file, "", 0),
		now:  time.Now,
	}, nil
}

// Log writes one line at the given level
func (l *Logger) Log(level Level, msg string) {
	l.out.Printf("%s [%s] %s", l.now().Format(timeLayout), strings.ToUpper(string(level)), msg)
}

// Info writes an info line
func (l *Logger) Info(msg string) {
	l.Log(LevelInfo, msg)
}

// Warning writes a warning line
func (l *Logger) Warning(msg string) {
	l.Log(LevelWarning, msg)
}

// Close closes the underlying file
func (l *Logger) Close() error {
	return l.file.Close()
}

// Tail returns up to n trailing lines of the log at path.
// A missing file yields no lines and no error.
func Tail(path string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	defer file.Close()

	// ring[head] is the oldest kept line once count exceeds n
	ring := make([]string, n)
	head, count := 0, 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		ring[head] = scanner.Text()
		head = (head + 1) % n
		count++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}

	if count < n {
		return ring[:count], nil
	}
	return append(ring[head:], ring[:head]...), nil
}

// Size returns the current size of the log at path, or 0 if it is missing
func Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Follow calls fn for every complete line appended to path after offset,
// polling every FollowInterval until ctx is done. A file that shrinks is
// read again from the start.
func Follow(ctx context.Context, path string, offset int64, fn func(line string)) error {
	ticker := time.NewTicker(FollowInterval)
	defer ticker.Stop()

	pos := offset
	var partial string

	for {
		next, rest, err := readFrom(path, pos, partial, fn)
		if err != nil {
			return err
		}
		pos, partial = next, rest

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func readFrom(path string, pos int64, partial string, fn func(string)) (int64, string, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, "", nil
	}
	if err != nil {
		return pos, partial, fmt.Errorf("failed to open event log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return pos, partial, fmt.Errorf("failed to stat event log: %w", err)
	}
	if info.Size() < pos {
		pos, partial = 0, ""
	}
	if info.Size() == pos {
		return pos, partial, nil
	}

	if _, err := file.Seek(pos, io.SeekStart); err != nil {
		return pos, partial, fmt.Errorf("failed to seek event log: %w", err)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return pos, partial, fmt.Errorf("failed to read event log: %w", err)
	}
	pos += int64(len(data))

	text := partial + string(data)
	lines := strings.Split(text, "\n")
	for _, line := range lines[:len(lines)-1] {
		fn(strings.TrimRight(line, "\r"))
	}

	return pos, lines[len(lines)-1], nil
}
