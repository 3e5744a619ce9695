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

package candidate

// Merge sort-merges the normal and tumor candidate generators by position,
// yielding only tumor positions that were previously (or simultaneously)
// observed in the normal stream. It is the only state needed for the
// heap-merge-of-two-tagged-streams pattern: a one-shot membership set.
type Merge struct {
	Normal, Tumor *Generator

	// SkipIfNormalEmpty, when true (as the pileup-tensor CLI sets it), requires pairedness: a
	// tumor position only yields if normal has seen it. When false, every
	// tumor candidate yields unconditionally.
	SkipIfNormalEmpty bool

	normalSeen map[int]bool

	haveNormal, haveTumor       bool
	normalDone, tumorDone       bool
	normalPos, tumorPos         int
	normalTag, tumorTag         string
}

// NewMerge constructs a Merge over two generators.
func NewMerge(normal, tumor *Generator, skipIfNormalEmpty bool) *Merge {
	return &Merge{
		Normal:            normal,
		Tumor:             tumor,
		SkipIfNormalEmpty: skipIfNormalEmpty,
		normalSeen:        make(map[int]bool),
	}
}

func (m *Merge) fetchNormal() error {
	if m.normalDone || m.haveNormal {
		return nil
	}
	pos, tag, ok, err := m.Normal.Next()
	if err != nil {
		return err
	}
	if !ok {
		m.normalDone = true
		return nil
	}
	m.normalPos, m.normalTag, m.haveNormal = pos, tag, true
	return nil
}

func (m *Merge) fetchTumor() error {
	if m.tumorDone || m.haveTumor {
		return nil
	}
	pos, tag, ok, err := m.Tumor.Next()
	if err != nil {
		return err
	}
	if !ok {
		m.tumorDone = true
		return nil
	}
	m.tumorPos, m.tumorTag, m.haveTumor = pos, tag, true
	return nil
}

// Next yields the next paired tumor position, or ok=false once both
// streams are exhausted. variantType carries the candidates-BED tag, if
// any, attached to the tumor candidate.
func (m *Merge) Next() (pos int, variantType string, ok bool, err error) {
	for {
		if err := m.fetchNormal(); err != nil {
			return 0, "", false, err
		}
		if err := m.fetchTumor(); err != nil {
			return 0, "", false, err
		}
		if !m.haveNormal && !m.haveTumor {
			return 0, "", false, nil
		}

		consumeNormal := m.haveNormal && (!m.haveTumor || m.normalPos <= m.tumorPos)
		if consumeNormal {
			m.normalSeen[m.normalPos] = true
			m.haveNormal = false
			continue
		}

		// consume tumor
		p, tag := m.tumorPos, m.tumorTag
		m.haveTumor = false
		if m.SkipIfNormalEmpty {
			if !m.normalSeen[p] {
				continue
			}
			delete(m.normalSeen, p) // one-shot
		}
		return p, tag, true, nil
	}
}
