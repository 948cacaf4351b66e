package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"biblenotes/bibleref"
)

// numberedRe matches study-list lines of the form "N. <Reference> - <Text>".
var numberedRe = regexp.MustCompile(`^\s*\d+\.\s+(.+?)\s+[\x{2014}\x{2013}-]\s+(.+)$`)

func lintFile(path string, out io.Writer) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open error: %w", err)
	}
	defer f.Close()

	return lintReader(path, f, out)
}

// lintReader reports every line whose reference does not parse and returns
// how many were bad. Blank lines and lines starting with # are ignored. A
// line is either a bare reference or a numbered study-list entry.
func lintReader(name string, r io.Reader, out io.Writer) (int, error) {
	sc := bufio.NewScanner(r)
	lineNum := 0
	bad := 0

	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		reference := line
		if m := numberedRe.FindStringSubmatch(line); m != nil {
			reference = m[1]
		}

		if _, err := bibleref.ParseReference(reference); err != nil {
			fmt.Fprintf(out, "%s:%d: %v\n", name, lineNum, err)
			bad++
		}
	}
	if err := sc.Err(); err != nil {
		return bad, fmt.Errorf("scan error: %w", err)
	}

	if bad == 0 {
		fmt.Fprintf(out, "%s: OK\n", name)
	}
	return bad, nil
}
