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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/biopileup/svcandidate/pileup"
)

func smallWindow(n int) map[int]*pileup.Position {
	window := make(map[int]*pileup.Position)
	pos := pileup.NewPosition(100, 'A')
	for i := 0; i < n; i++ {
		pos.Add(fmt.Sprintf("read%d", i), pileup.BaseCall{Base: 'A'}, 'F', '<')
	}
	window[100] = pos
	return window
}

func TestOrderReadsDedupAndSortByHaplotype(t *testing.T) {
	window := smallWindow(4)
	hap := map[string]int{"read0": 2, "read1": 0, "read2": 1, "read3": 0}
	ordered := OrderReads(window, 100, 0, 10, nil, hap, Options{})
	assert.Len(t, ordered, 4)
	// hap 0 reads keep first-appearance order, then hap 1, then hap 2
	assert.Equal(t, []string{"read1", "read3", "read2", "read0"}, namesOf(ordered))
}

func namesOf(rs []OrderedRead) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestOrderReadsGlobalAndSampleHapTakesMax(t *testing.T) {
	window := smallWindow(2)
	global := map[string]int{"read0": 1}
	sample := map[string]int{"read0": 0, "read1": 2}
	ordered := OrderReads(window, 100, 0, 10, global, sample, Options{})
	byName := map[string]int{}
	for _, r := range ordered {
		byName[r.Name] = r.Hap
	}
	assert.Equal(t, 1, byName["read0"])
	assert.Equal(t, 2, byName["read1"])
}

func TestOrderReadsSubsampleIsDeterministic(t *testing.T) {
	window := smallWindow(50)
	a := OrderReads(window, 100, 0, 16, nil, nil, Options{})
	b := OrderReads(window, 100, 0, 16, nil, nil, Options{})
	assert.Equal(t, a, b)
	assert.Len(t, a, 16)
}

func TestOrderReadsSampleModeSkipsSubsampleAndPrioritizes(t *testing.T) {
	window := smallWindow(50)
	priority := map[string]bool{"read49": true}
	ordered := OrderReads(window, 100, 0, 16, nil, nil, Options{SampleMode: true, PriorityReads: priority})

	// SampleMode keeps every read instead of capping at maxDepth.
	assert.Len(t, ordered, 50)
	// the priority read still sorts to the very front.
	assert.Equal(t, "read49", ordered[0].Name)
}
