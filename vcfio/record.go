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

// Package vcfio reads the minimal subset of VCF needed to select het-SNP
// phasing candidates: contig, position, REF, ALT, QUAL, and the first
// sample's genotype. It deliberately does not parse INFO/FORMAT in general;
// callers needing more should read Record.Line directly.
package vcfio

import "strings"

// Record is one VCF data line.
type Record struct {
	Contig string
	Pos    int // 1-based, as in the VCF spec
	Ref    string
	Alt    string
	Qual   float64

	// GT0 and GT1 hold the two allele indices decoded from the first sample's
	// GT subfield, with '|' normalized to '/'. An unparsable or missing GT
	// leaves both fields at -1.
	GT0, GT1 int

	// Line is the raw, unmodified source line, kept so pass-through rows
	// can be re-emitted byte-for-byte.
	Line string
}

// IsBiallelicSNV reports whether Ref and Alt are both single bases.
func (r *Record) IsBiallelicSNV() bool {
	return len(r.Ref) == 1 && len(r.Alt) == 1
}

// IsHeterozygous reports whether the decoded genotype is 0/1 or 1/0.
func (r *Record) IsHeterozygous() bool {
	return (r.GT0 == 0 && r.GT1 == 1) || (r.GT0 == 1 && r.GT1 == 0)
}

func parseGenotype(sampleField string) (int, int) {
	gt := sampleField
	if idx := strings.IndexByte(sampleField, ':'); idx >= 0 {
		gt = sampleField[:idx]
	}
	gt = strings.ReplaceAll(gt, "|", "/")
	parts := strings.SplitN(gt, "/", 2)
	if len(parts) != 2 {
		return -1, -1
	}
	a, aok := parseAllele(parts[0])
	b, bok := parseAllele(parts[1])
	if !aok || !bok {
		return -1, -1
	}
	return a, b
}

func parseAllele(s string) (int, bool) {
	switch s {
	case "0":
		return 0, true
	case "1":
		return 1, true
	default:
		return -1, false
	}
}
