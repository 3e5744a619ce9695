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

// Package bedtree indexes BED-style half-open intervals per contig for fast
// membership and overlap queries. It backs the confident-region, extend-bed,
// and candidates-bed lookups described in spec.md §6 ("Inbound — BED").
package bedtree

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/store/interval"
	"github.com/pkg/errors"
)

// bedInterval adapts a [start, end) range into interval.IntInterface so it
// can be stored in a biogo/store/interval.IntTree.
type bedInterval struct {
	id         uintptr
	start, end int
	variant    string
}

func (iv bedInterval) Overlap(b interval.IntRange) bool {
	return iv.start < b.End && b.Start < iv.end
}
func (iv bedInterval) ID() uintptr { return iv.id }
func (iv bedInterval) Range() interval.IntRange {
	return interval.IntRange{Start: iv.start, End: iv.end}
}

// Tree indexes the BED intervals for every contig seen while loading.
type Tree struct {
	perContig map[string]*interval.IntTree
	nextID    uintptr
}

// New returns an empty Tree.
func New() *Tree {
	return &Tree{perContig: make(map[string]*interval.IntTree)}
}

// Load reads tab-separated BED rows (contig, start, end[, variant_type, ...])
// from r and indexes them. Only rows for a contig in keepContigs (if
// non-empty) are retained, which lets callers restrict loading to the
// contig being processed in a chunk.
func Load(r io.Reader, keepContigs map[string]bool) (*Tree, error) {
	t := New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, errors.Errorf("bedtree: line %d: expected at least 3 tab-separated fields, got %d", lineNo, len(fields))
		}
		contig := fields[0]
		if len(keepContigs) != 0 && !keepContigs[contig] {
			continue
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Wrapf(err, "bedtree: line %d: bad start", lineNo)
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, errors.Wrapf(err, "bedtree: line %d: bad end", lineNo)
		}
		variant := ""
		if len(fields) >= 4 {
			variant = fields[3]
		}
		t.Insert(contig, start, end, variant)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "bedtree: scan failed")
	}
	return t, nil
}

// Insert adds a half-open [start, end) interval for contig, optionally
// tagged with a variant-type string (as used by the candidates BED, which
// carries a 4th column per spec.md §4.3/§9).
func (t *Tree) Insert(contig string, start, end int, variant string) {
	tree, ok := t.perContig[contig]
	if !ok {
		tree = &interval.IntTree{}
		t.perContig[contig] = tree
	}
	iv := bedInterval{id: t.nextID, start: start, end: end, variant: variant}
	t.nextID++
	// IntTree.Insert only fails on a duplicate ID, which cannot happen here
	// since ids are allocated monotonically.
	_ = tree.Insert(iv, true)
	tree.AdjustRanges()
}

// Contains reports whether [a, b) overlaps any indexed interval on contig.
func (t *Tree) Contains(contig string, a, b int) bool {
	if t == nil {
		return false
	}
	tree, ok := t.perContig[contig]
	if !ok {
		return false
	}
	return len(tree.Get(bedInterval{start: a, end: b})) > 0
}

// Len reports the total number of indexed intervals across all contigs.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	n := 0
	for _, tree := range t.perContig {
		n += tree.Len()
	}
	return n
}

// VariantTypeAt returns the variant-type tag of the first interval
// overlapping pos on contig (candidates-BED rows carry this as a 4th
// column), or "" if none overlap or none carry a tag.
func (t *Tree) VariantTypeAt(contig string, pos int) string {
	if t == nil {
		return ""
	}
	tree, ok := t.perContig[contig]
	if !ok {
		return ""
	}
	for _, got := range tree.Get(bedInterval{start: pos, end: pos + 1}) {
		if bi, ok := got.(bedInterval); ok && bi.variant != "" {
			return bi.variant
		}
	}
	return ""
}
