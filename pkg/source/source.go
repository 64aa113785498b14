/*
Package source loads faka programs. Comments start with `//` and end with `\\`,
they can span several lines and are removed before the program is split into
lines, so the text around a multiline comment ends up on a single line.
*/
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extension is the required extension of faka source files.
const Extension = ".faka"

// ErrBadExtension is returned for files without the Extension.
var ErrBadExtension = errors.New("file must have " + Extension + " extension")

// StripComments removes all comments from the source text.
func StripComments(src string) string {
	var (
		b         strings.Builder
		inComment bool
	)
	b.Grow(len(src))
	for i := 0; i < len(src); i++ {
		if i+1 < len(src) {
			if src[i] == '/' && src[i+1] == '/' {
				inComment = true
				i++
				continue
			}
			if inComment && src[i] == '\\' && src[i+1] == '\\' {
				inComment = false
				i++
				continue
			}
		}
		if !inComment {
			b.WriteByte(src[i])
		}
	}
	return b.String()
}

// SplitLines splits text into lines, both "\n" and "\r\n" line endings are
// accepted.
func SplitLines(text string) []string {
	var (
		lines []string
		sc    = bufio.NewScanner(strings.NewReader(text))
	)
	sc.Buffer(nil, len(text)+1)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

// Load reads the whole program from r and returns its comment-free lines.
func Load(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return SplitLines(StripComments(string(data))), nil
}

// LoadFile reads the program from the file with the given path which must
// have the .faka extension.
func LoadFile(path string) ([]string, error) {
	if filepath.Ext(path) != Extension {
		return nil, ErrBadExtension
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
