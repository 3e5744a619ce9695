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

// Package pileup decodes samtools-mpileup-style text lines into per-base
// read observations, and folds repeated observations of one (contig, pos)
// into a Position accumulator ready for tensor channel encoding.
package pileup

// Strand identifies which strand a pileup base call was observed on.
type Strand int

const (
	StrandFwd Strand = 0
	StrandRev Strand = 1
)

// base2num mirrors the IUPAC-to-ACGT collapse used by the channel encoder:
// ambiguity codes fold onto their most likely canonical base. The scale is
// 1-4 (not 0-3) so that 0 is reserved to mean "no base" in the tensor's
// ref/alt/insertion channels.
var base2num = map[byte]int{
	'A': 1, 'C': 2, 'G': 3, 'T': 4,
	'U': 1, 'R': 2, 'Y': 3, 'S': 4,
	'W': 1, 'K': 3, 'M': 1, 'B': 2,
	'D': 1, 'H': 1, 'V': 1, 'N': 1,
}

// ACGTNum returns the tensor channel-encoding code for an upper-case base
// letter: 1-4 for A/C/G/T, the folded 1-4 code from base2num for U, N and
// the other IUPAC ambiguity letters, and 0 for anything else.
func ACGTNum(base byte) int {
	if n, ok := base2num[base]; ok {
		return n
	}
	return 0
}

// GapCode is the alt-channel value for a read inside a previously reported
// deletion ('*' or '#' pileup tokens), distinct from any real base code.
const GapCode = 5

// HaplotypePalette maps a read's haplotype tag (0 = unphased, 1, 2) onto the
// integer the tensor's haplotype channel carries. Normal and tumor reads
// use distinct palettes so a classifier can tell, from the channel value
// alone, which sample a read came from as well as its haplotype.
type HaplotypePalette map[int]int

// NormalHapType is the haplotype-channel palette for normal-sample reads.
var NormalHapType = HaplotypePalette{0: 60, 1: 30, 2: 90}

// TumorHapType is the haplotype-channel palette for tumor-sample reads. It
// is offset from NormalHapType by +100 so the two samples never collide on
// the same channel value; this offset is not specified by the upstream
// tool and is a choice recorded in this project's design notes.
var TumorHapType = HaplotypePalette{0: 160, 1: 130, 2: 190}

// PhredScore decodes a single ASCII Phred+33 quality character into its raw
// integer score.
func PhredScore(qual byte) int { return int(qual) - 33 }

// EVCBase collapses a base call onto the canonical ACGT alphabet the way
// the evidence-collector does: 'N'/'n' becomes 'A'/'a', any other
// non-ACGT(acgt) letter becomes 'A' or 'a' depending on case.
func EVCBase(base byte) byte {
	switch base {
	case 'N':
		return 'A'
	case 'n':
		return 'a'
	}
	switch base {
	case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		return base
	}
	if base >= 'A' && base <= 'Z' {
		return 'A'
	}
	return 'a'
}

func isUpperACGT(b byte) bool {
	return b == 'A' || b == 'C' || b == 'G' || b == 'T'
}
