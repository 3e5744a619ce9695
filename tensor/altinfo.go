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
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/biopileup/svcandidate/pileup"
)

// AltInfo is the compact textual summary of the center-position alt
// spectrum emitted alongside each tensor: "{depth}-{alt1 count1 alt2
// count2 ...}-{af_list}". Keys are sorted for deterministic output.
// AFList is carried for wire-format completeness; every producer in this
// repo currently leaves it empty.
type AltInfo struct {
	Depth  int
	Counts map[string]int
	AFList []float64
}

// BuildAltInfo aggregates the alt spectrum at the center position: reads
// matching reference are dropped, mismatches key on "X"+base, insertions
// key on "I"+anchor+insertedSeq, deletions key on "D"+deletedRefBases.
func BuildAltInfo(center *pileup.Position, refBase byte, deletedRefBases func(length int) string) AltInfo {
	counts := make(map[string]int)
	depth := 0
	for _, call := range center.Call {
		if call.Base == '*' || call.Base == '#' {
			counts["*"]++
			depth++
			continue
		}
		depth++
		upper := call.Base
		if upper >= 'a' && upper <= 'z' {
			upper -= 'a' - 'A'
		}
		switch {
		case call.Indel != "" && call.Indel[0] == '+':
			key := "I" + string(upper) + strings.ToUpper(call.Indel[1:])
			counts[key]++
		case call.Indel != "" && call.Indel[0] == '-':
			n, _ := strconv.Atoi(strings.TrimLeft(call.Indel[1:], "0123456789"))
			_ = n
			length := deletionLength(call.Indel)
			key := "D" + deletedRefBases(length)
			counts[key]++
		case upper == refBase:
			// reference match: counted in depth only
		default:
			counts["X"+string(upper)]++
		}
	}
	return AltInfo{Depth: depth, Counts: counts}
}

// deletionLength returns the number of deleted bases in a "-<seq>" token.
func deletionLength(indel string) int {
	return len(indel) - 1
}

// String renders the AltInfo in "{depth}-{k1 c1 k2 c2 ...}-{af1 af2 ...}"
// form with keys sorted lexically for determinism. The trailing "-" and
// af_list segment are always present, even when AFList is empty.
func (a AltInfo) String() string {
	keys := make([]string, 0, len(a.Counts))
	for k := range a.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	fmt.Fprintf(&b, "%d-", a.Depth)
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s %d", k, a.Counts[k])
	}
	b.WriteByte('-')
	for i, af := range a.AFList {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v", af)
	}
	return b.String()
}

// ParseAltInfo parses a String()-rendered AltInfo back into (depth,
// alt->count, af_list), used by property tests to verify round-tripping
// (P7). The format has exactly 3 "-"-delimited segments; since none of the
// alt keys themselves ("I..", "D..", "X..") contain "-", the first "-"
// separates depth from the counts segment and the last "-" separates the
// counts segment from af_list.
func ParseAltInfo(s string) (AltInfo, error) {
	firstDash := strings.IndexByte(s, '-')
	lastDash := strings.LastIndexByte(s, '-')
	if firstDash < 0 || lastDash <= firstDash {
		return AltInfo{}, fmt.Errorf("tensor: malformed AltInfo %q", s)
	}
	depth, err := strconv.Atoi(s[:firstDash])
	if err != nil {
		return AltInfo{}, fmt.Errorf("tensor: bad depth in AltInfo %q: %w", s, err)
	}
	rest := strings.TrimSpace(s[firstDash+1 : lastDash])
	counts := make(map[string]int)
	if rest != "" {
		fields := strings.Fields(rest)
		if len(fields)%2 != 0 {
			return AltInfo{}, fmt.Errorf("tensor: odd field count in AltInfo %q", s)
		}
		for i := 0; i < len(fields); i += 2 {
			c, err := strconv.Atoi(fields[i+1])
			if err != nil {
				return AltInfo{}, fmt.Errorf("tensor: bad count in AltInfo %q: %w", s, err)
			}
			counts[fields[i]] = c
		}
	}
	var afList []float64
	if afRest := strings.TrimSpace(s[lastDash+1:]); afRest != "" {
		for _, f := range strings.Fields(afRest) {
			af, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return AltInfo{}, fmt.Errorf("tensor: bad af in AltInfo %q: %w", s, err)
			}
			afList = append(afList, af)
		}
	}
	return AltInfo{Depth: depth, Counts: counts, AFList: afList}, nil
}
