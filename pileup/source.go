// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pileup

import (
	"bufio"
	"io"

	"github.com/biopileup/svcandidate/errs"
)

// LineSource abstracts a pileup text stream: production wiring launches
// `samtools mpileup` as a subprocess and adapts its stdout, tests hand in an
// in-memory source. EOF is reported as ok=false, err=nil.
type LineSource interface {
	Next() (line []byte, ok bool, err error)
}

// ScannerSource adapts a bufio.Scanner-driven io.Reader into a LineSource.
type ScannerSource struct {
	scanner *bufio.Scanner
}

// NewScannerSource wraps r, which is typically a subprocess's stdout pipe.
func NewScannerSource(r io.Reader) *ScannerSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &ScannerSource{scanner: scanner}
}

// Next implements LineSource.
func (s *ScannerSource) Next() ([]byte, bool, error) {
	if s.scanner.Scan() {
		return s.scanner.Bytes(), true, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, false, errs.UpstreamClosed
	}
	return nil, false, nil
}

// SliceSource replays a fixed slice of lines, used by tests that want full
// control over stream contents without standing up a subprocess.
type SliceSource struct {
	lines [][]byte
	idx   int
}

// NewSliceSource returns a LineSource that replays lines in order.
func NewSliceSource(lines []string) *SliceSource {
	b := make([][]byte, len(lines))
	for i, l := range lines {
		b[i] = []byte(l)
	}
	return &SliceSource{lines: b}
}

// Next implements LineSource.
func (s *SliceSource) Next() ([]byte, bool, error) {
	if s.idx >= len(s.lines) {
		return nil, false, nil
	}
	line := s.lines[s.idx]
	s.idx++
	return line, true, nil
}
