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

package tensor

import (
	"github.com/biopileup/svcandidate/bedtree"
	"github.com/biopileup/svcandidate/config"
	"github.com/biopileup/svcandidate/pileup"
)

// Tensor is a dense depth x window x channel array, zero-initialized and
// row-major: Rows[readIdx][offset][channel].
type Tensor struct {
	Depth, Width, Channels int
	Rows                   [][][]int
}

func newTensor(depth, width, channels int) *Tensor {
	rows := make([][][]int, depth)
	for d := range rows {
		cols := make([][]int, width)
		for w := range cols {
			cols[w] = make([]int, channels)
		}
		rows[d] = cols
	}
	return &Tensor{Depth: depth, Width: width, Channels: channels, Rows: rows}
}

type insertionSpill struct {
	readIdx, offset int
	insBase         string
}

// Build materializes one sample's tensor for a center position, following
// ordered's row assignment. maxDepth pads (or truncates; ordered is already
// capped outside sample mode) the tensor to a fixed row count so unused rows stay
// all-zero (spec.md P4). Returns ok=false when a confident-region BED is
// provided and the window does not intersect it — the position is skipped
// entirely, with no tensor produced.
func Build(profile config.Profile, maxDepth int, contig string, center int, ordered []OrderedRead, window map[int]*pileup.Position, isTumor bool, hap map[string]int, confidentBed *bedtree.Tree) (*Tensor, bool) {
	if confidentBed != nil && confidentBed.Len() > 0 {
		// window [center-F, center+F] as a 0-based half-open BED range
		if !confidentBed.Contains(contig, center-profile.F-1, center+profile.F) {
			return nil, false
		}
	}

	width := profile.NoOfPositions()
	t := newTensor(maxDepth, width, profile.ChannelSize)
	start := center - profile.F

	var spills []insertionSpill
	for p := start; p < start+width; p++ {
		pos, ok := window[p]
		if !ok {
			continue
		}
		pos.Resolve(profile, isTumor, hap)
		offset := p - start
		for readIdx, r := range ordered {
			if readIdx >= maxDepth {
				break
			}
			info, ok := pos.ReadInfo[r.Name]
			if !ok {
				continue
			}
			copy(t.Rows[readIdx][offset], info.Channels[:])
			if info.InsBase != "" && offset < width-1 {
				spills = append(spills, insertionSpill{readIdx: readIdx, offset: offset, insBase: info.InsBase})
			}
		}
	}

	for _, s := range spills {
		remain := width - s.offset
		n := len(s.insBase)
		if n > remain {
			n = remain
		}
		for i := 0; i < n; i++ {
			t.Rows[s.readIdx][s.offset+i][6] = pileupACGTNum(s.insBase[i])
		}
	}

	return t, true
}

func pileupACGTNum(b byte) int { return pileup.ACGTNum(b) }
