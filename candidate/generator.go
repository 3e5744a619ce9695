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

// Package candidate drives a single pileup stream, retaining a sliding
// window of decoded positions and a queue of candidate positions awaiting
// emission once their window is complete. It also merges two such
// generators (normal, tumor) into the paired tumor-candidate stream.
package candidate

import (
	"fmt"
	"io"

	"github.com/biopileup/svcandidate/bedtree"
	"github.com/biopileup/svcandidate/config"
	"github.com/biopileup/svcandidate/pileup"
)

// Generator lazily enumerates candidate positions from one pileup stream.
type Generator struct {
	source  pileup.LineSource
	profile config.Profile
	contig  string
	isTumor bool

	ctgStart, ctgEnd int // 0,0 means unbounded

	extendBed     *bedtree.Tree
	candidatesBed *bedtree.Tree
	knownVariants map[int]bool

	window     map[int]*pileup.Position
	hap        map[string]int
	candidates []int
	variantTag []string
	emitCursor int

	exhausted      bool
	malformedCount int

	// altFnWriter, when set via SetAltFnWriter, receives one "contig\tpos\n"
	// line per accepted candidate as it's discovered. Debug-only: lets a
	// later run re-derive this stream's accepted-position set without
	// re-decoding the pileup (--alt_fn, SPEC_FULL.md §13).
	altFnWriter io.Writer
}

// New constructs a Generator reading from source. extendBed and
// candidatesBed may be nil; knownVariants may be nil.
func New(source pileup.LineSource, profile config.Profile, contig string, ctgStart, ctgEnd int, isTumor bool, extendBed, candidatesBed *bedtree.Tree, knownVariants map[int]bool) *Generator {
	return &Generator{
		source:        source,
		profile:       profile,
		contig:        contig,
		isTumor:       isTumor,
		ctgStart:      ctgStart,
		ctgEnd:        ctgEnd,
		extendBed:     extendBed,
		candidatesBed: candidatesBed,
		knownVariants: knownVariants,
		window:        make(map[int]*pileup.Position),
		hap:           make(map[string]int),
	}
}

// Window exposes the retention cache, read by the tensor builder once a
// candidate has been yielded from the merge stage.
func (g *Generator) Window() map[int]*pileup.Position { return g.window }

// Haplotypes exposes the per-sample read-name -> HP-tag map accumulated
// while ingesting rows.
func (g *Generator) Haplotypes() map[string]int { return g.hap }

// MalformedCount returns the number of rows skipped due to MalformedPileup.
func (g *Generator) MalformedCount() int { return g.malformedCount }

// SetAltFnWriter installs an optional debug hook: every position accepted
// as a candidate from this point on is logged to w as "contig\tpos\n" (the
// normal-side equivalent of the original's gzip'd alt_fn dump). The
// pileup-tensor CLI sets it only when --alt_fn is given.
func (g *Generator) SetAltFnWriter(w io.Writer) { g.altFnWriter = w }

func (g *Generator) inRange(pos int) bool {
	if g.ctgStart == 0 && g.ctgEnd == 0 {
		return true
	}
	return pos >= g.ctgStart && pos < g.ctgEnd
}

// ingestOne pulls and decodes one row, folding it into the window and
// candidate queue. Returns ok=false once the source is exhausted.
func (g *Generator) ingestOne() (ok bool, err error) {
	line, ok, err := g.source.Next()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	row, perr := pileup.ParseRow(line)
	if perr != nil {
		g.malformedCount++
		return true, nil
	}
	if row.Contig != g.contig {
		return true, nil
	}
	if !isUpperACGTByte(row.RefBase) {
		return true, nil
	}
	if !g.inRange(row.Pos) {
		if g.extendBed == nil || !g.extendBed.Contains(g.contig, row.Pos-1, row.Pos) {
			return true, nil
		}
	}

	pos := row.ToPosition(g.profile.SNVMinAF, g.profile.IndelMinAF)
	g.window[row.Pos] = pos
	for i, name := range row.Names {
		if row.HP != nil {
			if hp := row.HP[i]; hp > g.hap[name] {
				g.hap[name] = hp
			}
		} else if _, ok := g.hap[name]; !ok {
			g.hap[name] = 0
		}
	}

	variantTag := ""
	accept := false
	switch {
	case g.candidatesBed != nil:
		if g.candidatesBed.Contains(g.contig, row.Pos-1, row.Pos) {
			accept = true
			variantTag = g.candidatesBed.VariantTypeAt(g.contig, row.Pos-1)
		}
	case g.knownVariants != nil:
		// known sites bypass the AF gate; every other row still faces it
		if g.knownVariants[row.Pos] || (pos.PassAF && float64(pos.Depth) >= g.profile.MinCoverage) {
			accept = true
		}
	default:
		if pos.PassAF && float64(pos.Depth) >= g.profile.MinCoverage {
			accept = true
		}
	}
	if accept {
		g.candidates = append(g.candidates, row.Pos)
		g.variantTag = append(g.variantTag, variantTag)
		if g.altFnWriter != nil {
			fmt.Fprintf(g.altFnWriter, "%s\t%d\n", g.contig, row.Pos)
		}
	}
	return true, nil
}

func isUpperACGTByte(b byte) bool {
	return b == 'A' || b == 'C' || b == 'G' || b == 'T'
}

// trimWindow drops every retained position older than the given floor.
func (g *Generator) trimWindow(floor int) {
	for k := range g.window {
		if k < floor {
			delete(g.window, k)
		}
	}
}

// Next yields the next candidate position once its retention window is
// complete, pulling more rows from the source as needed. ok is false once
// every queued candidate (including the final flush at stream end) has
// been emitted.
func (g *Generator) Next() (pos int, variantType string, ok bool, err error) {
	extend := g.profile.ExtendDistance()
	for {
		if g.emitCursor < len(g.candidates) {
			cand := g.candidates[g.emitCursor]
			var lastSeenPos int
			hasLastSeen := false
			for k := range g.window {
				if !hasLastSeen || k > lastSeenPos {
					lastSeenPos, hasLastSeen = k, true
				}
			}
			if g.exhausted || (hasLastSeen && lastSeenPos-cand > extend) {
				tag := g.variantTag[g.emitCursor]
				g.emitCursor++
				g.trimWindow(cand - extend)
				return cand, tag, true, nil
			}
		}
		if g.exhausted {
			return 0, "", false, nil
		}
		more, ierr := g.ingestOne()
		if ierr != nil {
			return 0, "", false, ierr
		}
		if !more {
			g.exhausted = true
		}
	}
}
