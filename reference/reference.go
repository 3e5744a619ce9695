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

// Package reference loads a single contig's sequence out of a FASTA file and
// answers base-at-position and window-substring queries. The whole contig is
// held in memory, so candidates near a chunk boundary still have flanking
// bases available; only windows running off either end of the contig are
// padded with 'N'.
package reference

import (
	"bufio"
	"strings"

	"github.com/pkg/errors"

	"github.com/biopileup/svcandidate/errs"
)

const bufferInitSize = 64 * 1024 * 1024

// Contig holds one contig's upper-cased sequence in memory, 0-based.
type Contig struct {
	name string
	seq  string
}

// Load scans a FASTA reader and returns the single contig named want. It
// does not require a .fai index: every record is scanned until the wanted
// one is found, matching the scale of one-chunk, one-contig invocations
// that create-pair-tensor style drivers perform per worker.
func Load(r *bufio.Reader, want string) (*Contig, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, bufferInitSize)
	var seqName string
	var seq strings.Builder
	var found *Contig
	flush := func() {
		if seqName == want {
			found = &Contig{name: seqName, seq: strings.ToUpper(seq.String())}
		}
	}
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if seq.Len() != 0 || seqName != "" {
				flush()
				if found != nil {
					return found, nil
				}
			}
			seqName = strings.Split(line[1:], " ")[0]
			seq.Reset()
		} else {
			seq.WriteString(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reference: couldn't read FASTA data")
	}
	flush()
	if found == nil {
		return nil, errors.Wrapf(errs.ReferenceUnavailable, "contig %q not found in FASTA", want)
	}
	return found, nil
}

// Name returns the contig's name.
func (c *Contig) Name() string { return c.name }

// Len returns the contig length.
func (c *Contig) Len() int { return len(c.seq) }

// BaseAt returns the single upper-cased base at 0-based pos, or 'N' if pos
// falls outside the contig (the caller is expected to treat a run of 'N'
// bases as errs.ReferenceUnavailable for the whole window).
func (c *Contig) BaseAt(pos int) byte {
	if pos < 0 || pos >= len(c.seq) {
		return 'N'
	}
	return c.seq[pos]
}

// Window returns the half-open substring [start, end), clipped to the
// contig bounds and padded with 'N' where the window runs off either end.
func (c *Contig) Window(start, end int) string {
	if end <= start {
		return ""
	}
	var b strings.Builder
	b.Grow(end - start)
	for pos := start; pos < end; pos++ {
		b.WriteByte(c.BaseAt(pos))
	}
	return b.String()
}

// HasConfidentBases reports whether the window [start, end) contains at
// least one non-'N' base; an entirely-N window gates ReferenceUnavailable
// per spec.md §7.
func (c *Contig) HasConfidentBases(start, end int) bool {
	return strings.Trim(c.Window(start, end), "N") != ""
}
