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
	"sort"
	"strconv"
	"strings"

	"github.com/biopileup/svcandidate/errs"
)

// BaseCall is one read's contribution to a pileup column: the call letter
// (case encodes strand) plus any attached indel token, stored as the sign
// followed by the indel sequence without its length digits ("+AT", "-A", ...).
type BaseCall struct {
	Base  byte
	Indel string
}

// Joined renders the call the way the original mpileup-base-counter keys
// its Counter: the base letter followed by the indel token, if any.
func (c BaseCall) Joined() string {
	if c.Indel == "" {
		return string(c.Base)
	}
	return string(c.Base) + c.Indel
}

// DecodeBases parses one samtools-mpileup "bases" column into one BaseCall
// per aligned read, in read order. It understands '^mq' read-start markers,
// '$' read-end markers, '+N<seq>'/'-N<seq>' indel tokens, the '*'/'#'
// deletion-placeholder letters, and the '.'/',' reference-match tokens,
// which are kept as-is (ParseRow replaces them with the reference base).
func DecodeBases(basesCol string) ([]BaseCall, error) {
	var calls []BaseCall
	i := 0
	n := len(basesCol)
	for i < n {
		b := basesCol[i]
		switch {
		case b == '+' || b == '-':
			if len(calls) == 0 {
				return nil, errs.MalformedPileup
			}
			i++
			start := i
			for i < n && basesCol[i] >= '0' && basesCol[i] <= '9' {
				i++
			}
			if i == start {
				return nil, errs.MalformedPileup
			}
			advance, err := strconv.Atoi(basesCol[start:i])
			if err != nil {
				return nil, errs.MalformedPileup
			}
			if i+advance > n {
				return nil, errs.MalformedPileup
			}
			calls[len(calls)-1].Indel = string(b) + basesCol[i:i+advance]
			i += advance
		case strings.IndexByte("ACGTNacgtn#*.,", b) >= 0:
			calls = append(calls, BaseCall{Base: b})
			i++
		case b == '^':
			// '^' is followed by one mapping-quality byte; skip both, and
			// the base-call byte that should follow is handled by the next
			// loop iteration since '^' itself is not a call.
			i += 2
		case b == '$':
			i++
		default:
			return nil, errs.MalformedPileup
		}
	}
	return calls, nil
}

// CountedBase is one distinct (base, indel) key's aggregate observation
// count within a pileup column, used for the allele-fraction gate.
type CountedBase struct {
	Key   string
	Count int
}

// AFGateResult is the outcome of the allele-fraction gate for one column.
type AFGateResult struct {
	Depth  int
	PassAF bool
	AF     float64
}

// EvaluateAFGate aggregates calls into per-allele counts and decides
// whether any non-reference allele clears the platform's SNV/indel minimum
// allele-fraction thresholds. referenceBase must be upper-case.
func EvaluateAFGate(calls []BaseCall, referenceBase byte, minSNVAF, minIndelAF float64) AFGateResult {
	counts := make(map[string]int)
	depth := 0
	for _, c := range calls {
		upper := c.Base
		if upper >= 'a' && upper <= 'z' {
			upper -= 'a' - 'A'
		}
		switch {
		case isUpperACGT(upper):
			counts[string(upper)]++
			depth++
		case upper == '#' || upper == '*':
			depth++
			continue
		default:
			continue
		}
		switch {
		case len(c.Indel) > 0 && c.Indel[0] == '+':
			counts["I"]++
		case len(c.Indel) > 0 && c.Indel[0] == '-':
			counts["D"]++
		}
	}

	type kv struct {
		key   string
		count int
	}
	var sorted []kv
	for k, v := range counts {
		sorted = append(sorted, kv{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].count > sorted[j].count })

	denom := depth
	if denom <= 0 {
		denom = 1
	}

	passSNV, passIndel := false, false
	for _, e := range sorted {
		if passSNV || passIndel {
			break
		}
		if e.key == string(referenceBase) {
			continue
		}
		if e.key == "I" || e.key == "D" {
			if float64(e.count)/float64(denom) >= minIndelAF {
				passIndel = true
			}
			continue
		}
		if float64(e.count)/float64(denom) >= minSNVAF {
			passSNV = true
		}
	}

	af := 0.0
	if len(sorted) > 1 {
		af = float64(sorted[1].count) / float64(denom)
	}
	if len(sorted) >= 1 && sorted[0].key != string(referenceBase) {
		af = float64(sorted[0].count) / float64(denom)
	}

	return AFGateResult{Depth: depth, PassAF: passSNV || passIndel, AF: af}
}
