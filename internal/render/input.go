package render

import (
	"bufio"
	"io"
	"strings"
	"sync"
)

type lineResult struct {
	line string
	err  error
}

// lineReader reads lines from r in a goroutine so that a prompt can stop
// waiting on context cancellation.
type lineReader struct {
	once  sync.Once
	r     io.Reader
	lines chan lineResult

	mu  sync.Mutex
	err error
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{
		r:     r,
		lines: make(chan lineResult),
	}
}

func (lr *lineReader) start() {
	lr.once.Do(func() {
		go func() {
			reader := bufio.NewReader(lr.r)
			for {
				line, err := reader.ReadString('\n')
				line = strings.TrimRight(line, "\r\n")
				if err != nil {
					if line != "" {
						lr.lines <- lineResult{line: line}
					}
					lr.lines <- lineResult{err: err}
					return
				}
				lr.lines <- lineResult{line: line}
			}
		}()
	})
}

// sticky returns the error that ended the input stream, if any.
func (lr *lineReader) sticky() error {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return lr.err
}

func (lr *lineReader) setSticky(err error) {
	lr.mu.Lock()
	lr.err = err
	lr.mu.Unlock()
}
