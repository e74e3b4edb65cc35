package tablet

import (
	"bufio"
	"io"
	"io/fs"
)

const maxLineBytes = 1024 * 1024

func newScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}

// Scan calls fn for every line addressed by t, in order, passing the
// absolute line index. It stops early at end of file or when fn returns an
// error, which is returned as is. The file is always closed before Scan returns.
func Scan(fsys fs.FS, t Tablet, fn func(index int, line string) error) error {
	if t.Empty() {
		return nil
	}

	f, err := fsys.Open(t.path)
	if err != nil {
		return &UnreadableError{Path: t.path, Err: err}
	}
	defer f.Close()

	scanner := newScanner(f)
	for i := 0; i <= t.end && scanner.Scan(); i++ {
		if i < t.start {
			continue
		}
		if err := fn(i, scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return &UnreadableError{Path: t.path, Err: err}
	}
	return nil
}

// CountLines returns the number of lines in the file at p. A trailing
// newline does not start another line.
func CountLines(fsys fs.FS, p string) (int, error) {
	f, err := fsys.Open(p)
	if err != nil {
		return 0, &UnreadableError{Path: p, Err: err}
	}
	defer f.Close()

	scanner := newScanner(f)
	n := 0
	for scanner.Scan() {
		n++
	}
	if err := scanner.Err(); err != nil {
		return 0, &UnreadableError{Path: p, Err: err}
	}
	return n, nil
}

// Whole returns a Tablet spanning every line of the file at p.
func Whole(fsys fs.FS, p string) (Tablet, error) {
	n, err := CountLines(fsys, p)
	if err != nil {
		return Tablet{}, err
	}
	if n == 0 {
		return Tablet{}, &UnreadableError{Path: p, Err: ErrEmpty}
	}
	return Tablet{path: p, start: 0, end: n - 1}, nil
}
