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

// Package tensor builds the depth x window x channel numeric tensor for one
// (position, sample) pair from a candidate generator's retained window.
package tensor

import (
	"math/rand"
	"sort"

	"github.com/biopileup/svcandidate/pileup"
)

// fixedSubsampleSeed is the constant PRNG seed required for byte-for-byte
// reproducible subsampling across runs (spec.md P5).
const fixedSubsampleSeed = 0

// OrderedRead is one row's identity in the final tensor: which read, its
// effective haplotype, its first-appearance index (the secondary sort key,
// and the tie-break used before any subsampling), and whether it was given
// subsample-survival priority.
type OrderedRead struct {
	Name       string
	Hap        int
	FirstIndex int
	Priority   bool
}

// OrderReads gathers every read observed in [center-F, center+F] in the
// given window, deduplicates preserving first-appearance order, caps to
// maxDepth reads via a deterministic subsample, and stable-sorts the result
// by (priority, haplotype, first-appearance).
//
// globalHap is a phasing map shared across samples (may be nil); sampleHap
// is this sample's own HP-tag map (may be nil). A read's effective
// haplotype is max(globalHap[name], sampleHap[name]).
//
// opts.SampleMode, when true, skips the deterministic subsample entirely:
// every read is ordered, and opts.PriorityReads is sorted to the front so
// those reads survive Build's fixed-depth truncation even when more reads
// exist than maxDepth (--tensor_sample_mode, SPEC_FULL.md §13).
func OrderReads(window map[int]*pileup.Position, center, f, maxDepth int, globalHap, sampleHap map[string]int, opts Options) []OrderedRead {
	seen := make(map[string]bool)
	var names []string
	for p := center - f; p <= center+f; p++ {
		pos, ok := window[p]
		if !ok {
			continue
		}
		for _, name := range pos.ReadName {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	if !opts.SampleMode && maxDepth > 0 && len(names) > maxDepth {
		rng := rand.New(rand.NewSource(fixedSubsampleSeed))
		perm := rng.Perm(len(names))
		picked := perm[:maxDepth]
		sort.Ints(picked)
		subset := make([]string, maxDepth)
		for i, idx := range picked {
			subset[i] = names[idx]
		}
		names = subset
	}

	out := make([]OrderedRead, len(names))
	for i, name := range names {
		hap := 0
		if globalHap != nil {
			hap = globalHap[name]
		}
		if sampleHap != nil {
			if h := sampleHap[name]; h > hap {
				hap = h
			}
		}
		out[i] = OrderedRead{Name: name, Hap: hap, FirstIndex: i, Priority: opts.PriorityReads[name]}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority
		}
		if out[i].Hap != out[j].Hap {
			return out[i].Hap < out[j].Hap
		}
		return out[i].FirstIndex < out[j].FirstIndex
	})
	return out
}
