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

import "github.com/biopileup/svcandidate/config"

// ReadInfo is one read's decoded per-position tensor row: the 7-channel
// encoding plus any inserted-base spillover to apply at later offsets.
type ReadInfo struct {
	Channels [7]int
	InsBase  string
	// QueryBase is the upper-cased ACGT call, or "" for calls that don't
	// contribute one (deletions, N-folded bases).
	QueryBase string
}

// Position accumulates every read's observation at one (contig, pos)
// column, in the order reads were first seen in the pileup stream.
type Position struct {
	Pos      int
	RefBase  byte // upper-case
	ReadName []string
	Call     []BaseCall
	RawBQ    []byte
	RawMQ    []byte

	Depth  int
	PassAF bool
	AF     float64

	// ReadInfo is populated lazily by Resolve, keyed by read name, once the
	// column is known to fall inside some candidate's retention window.
	ReadInfo map[string]ReadInfo
	resolved bool
}

// NewPosition starts an empty accumulator for pos.
func NewPosition(pos int, refBase byte) *Position {
	return &Position{Pos: pos, RefBase: refBase}
}

// Add appends one read's observation to the column.
func (p *Position) Add(readName string, call BaseCall, bq, mq byte) {
	p.ReadName = append(p.ReadName, readName)
	p.Call = append(p.Call, call)
	p.RawBQ = append(p.RawBQ, bq)
	p.RawMQ = append(p.RawMQ, mq)
}

// EvaluateAFGate runs the allele-fraction gate over the column's current
// calls and records the result on Depth/PassAF/AF.
func (p *Position) EvaluateAFGate(minSNVAF, minIndelAF float64) {
	r := EvaluateAFGate(p.Call, p.RefBase, minSNVAF, minIndelAF)
	p.Depth, p.PassAF, p.AF = r.Depth, r.PassAF, r.AF
}

// Resolve computes the per-read tensor channel encoding for every read in
// the column, the first time it is needed for some candidate's window.
// hap maps read name to haplotype tag (0 if absent/unphased).
func (p *Position) Resolve(profile config.Profile, isTumor bool, hap map[string]int) {
	if p.resolved {
		return
	}
	p.resolved = true
	p.ReadInfo = make(map[string]ReadInfo, len(p.ReadName))
	palette := NormalHapType
	if isTumor {
		palette = TumorHapType
	}
	for i, name := range p.ReadName {
		bq := profile.NormalizeBQ(PhredScore(p.RawBQ[i]))
		mq := profile.NormalizeMQ(PhredScore(p.RawMQ[i]))
		hp := 0
		if hap != nil {
			hp = hap[name]
		}
		info := encodeReadChannels(p.Call[i], bq, p.RefBase, profile.MaskLowBQ, mq, palette[hp])
		p.ReadInfo[name] = info
	}
}

// encodeReadChannels builds the 7-channel tensor row for one read's call at
// one position, following the channel layout: ref base, alt base, strand,
// bq, mq, haplotype tag, insertion spillover (filled in separately by the
// tensor builder once the inserted sequence's offsets are known).
func encodeReadChannels(call BaseCall, bq int, refBase byte, maskLowBQ bool, mq, hapType int) ReadInfo {
	var info ReadInfo
	if call.Base == '*' || call.Base == '#' {
		info.Channels[0] = ACGTNum(refBase)
		info.Channels[1] = GapCode
		info.Channels[3] = bq
		return info
	}

	strand := 1
	if isUpperACGT(call.Base) {
		strand = 0
	}

	altBase := 0
	baseUpper := call.Base
	if baseUpper >= 'a' && baseUpper <= 'z' {
		baseUpper -= 'a' - 'A'
	}

	switch {
	case call.Indel != "":
		altBase = ACGTNum(call.Indel[1])
	case baseUpper != refBase && isUpperACGT(baseUpper):
		baseUpper = EVCBase(baseUpper)
		if baseUpper >= 'a' && baseUpper <= 'z' {
			baseUpper -= 'a' - 'A'
		}
		altBase = ACGTNum(baseUpper)
		if maskLowBQ && bq < 33 && altBase != 0 {
			altBase = 0
			bq = 0
		}
	}

	refChan := ACGTNum(refBase)
	if len(call.Indel) > 0 && call.Indel[0] == '+' {
		info.InsBase = upperASCII(call.Indel[1:])
	}

	info.Channels[0] = refChan
	info.Channels[1] = altBase
	info.Channels[2] = strand
	info.Channels[3] = bq
	info.Channels[4] = mq
	info.Channels[5] = hapType

	if isUpperACGT(baseUpper) {
		info.QueryBase = string(baseUpper)
	}
	return info
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
