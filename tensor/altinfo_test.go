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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/biopileup/svcandidate/pileup"
)

func TestAltInfoRoundTrip(t *testing.T) {
	pos := pileup.NewPosition(100, 'A')
	for i := 0; i < 20; i++ {
		pos.Add("r", pileup.BaseCall{Base: 'A'}, 'F', '<')
	}
	for i := 0; i < 10; i++ {
		pos.Add("r", pileup.BaseCall{Base: 'T'}, 'F', '<')
	}
	alt := BuildAltInfo(pos, 'A', func(int) string { return "" })
	s := alt.String()

	parsed, err := ParseAltInfo(s)
	assert.NoError(t, err)
	assert.Equal(t, alt.Depth, parsed.Depth)
	assert.Equal(t, alt.Counts, parsed.Counts)
}

func TestAltInfoStringHasThreeSegments(t *testing.T) {
	alt := AltInfo{Depth: 30, Counts: map[string]int{"XT": 10, "R": 20}}
	assert.Equal(t, "30-R 20 XT 10-", alt.String())

	alt.AFList = []float64{0.5, 0.1}
	assert.Equal(t, "30-R 20 XT 10-0.5 0.1", alt.String())

	parsed, err := ParseAltInfo(alt.String())
	assert.NoError(t, err)
	assert.Equal(t, alt, parsed)
}

func TestAltInfoCountsMismatch(t *testing.T) {
	pos := pileup.NewPosition(100, 'A')
	for i := 0; i < 5; i++ {
		pos.Add("r", pileup.BaseCall{Base: 'A'}, 'F', '<')
	}
	for i := 0; i < 3; i++ {
		pos.Add("r", pileup.BaseCall{Base: 'T'}, 'F', '<')
	}
	alt := BuildAltInfo(pos, 'A', func(int) string { return "" })
	assert.Equal(t, 8, alt.Depth)
	assert.Equal(t, 0, alt.Counts["R"])
	assert.Equal(t, 3, alt.Counts["XT"])
}
