package trace

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/vimprof/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrRead         = pkg.NewError("failed to read trace log")
	ErrInconsistent = pkg.NewError("duration exceeds run total")
)

// maxLineSize bounds a single log line; identifiers are file paths, so this
// leaves plenty of room.
const maxLineSize = 1 << 20

var (
	eventLine = regexp.MustCompile(
		`^(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?):\s(.+)$`,
	)
	attributionLine = regexp.MustCompile(
		`^(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?)\s+(\d+(?:\.\d+)?):\ssourcing\s(.+)$`,
	)
)

// builder accumulates one Sample from lines of a single log.
type builder struct {
	total float64
	index map[string]int
	comps []Component
}

func (b *builder) clock(s string) {
	v, err := strconv.ParseFloat(s, 64)
	if err == nil && v > b.total {
		b.total = v
	}
}

func (b *builder) line(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	if m := eventLine.FindStringSubmatch(text); m != nil {
		b.clock(m[1])

		return
	}

	m := attributionLine.FindStringSubmatch(text)
	if m == nil {
		return
	}

	elapsed, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return
	}

	b.clock(m[1])

	id := m[4]
	if b.index == nil {
		b.index = make(map[string]int)
	}

	i, ok := b.index[id]
	if !ok {
		i = len(b.comps)
		b.index[id] = i
		b.comps = append(b.comps, Component{Identifier: id})
	}

	b.comps[i].Durations = append(b.comps[i].Durations, elapsed)
}

func (b *builder) sample() (Sample, error) {
	s := Sample{Total: b.total, Components: b.comps}
	if s.Components == nil {
		s.Components = []Component{}
	}

	err := s.Validate()
	if err != nil {
		return Sample{}, err
	}

	return s, nil
}

// ParseString parses the complete text of one run's trace log.
func ParseString(text string) (Sample, error) {
	var b builder

	for line := range strings.Lines(text) {
		b.line(line)
	}

	return b.sample()
}

// Parse reads and parses the complete trace log of one run from r.
func Parse(r io.Reader) (Sample, error) {
	// Wrap reader with async read-ahead so file I/O overlaps with matching.
	ra := readahead.NewReader(r)
	defer ra.Close()

	var b builder

	scanner := bufio.NewScanner(ra)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)

	for scanner.Scan() {
		b.line(scanner.Text())
	}

	err := scanner.Err()
	if err != nil {
		return Sample{}, ErrRead.Wrap(err)
	}

	return b.sample()
}
