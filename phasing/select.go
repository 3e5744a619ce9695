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

// Package phasing selects heterozygous SNPs from a normal/tumor VCF pair for
// downstream read phasing (sites common to both, plus tumor-only sites of
// sufficient quality), dropping the lowest-quality tail of each sample's
// quality distribution.
package phasing

import (
	"sort"

	"github.com/biopileup/svcandidate/vcfio"
)

// Options configures Select.
type Options struct {
	Contig     string // if non-empty, restrict to records on this contig
	VarPctFull float64
	MinQual    float64
}

// Diagnostics summarizes one Select call for logging, mirroring the
// original tool's single diagnostic print line.
type Diagnostics struct {
	Selected        int
	NotFoundInTumor int
	NotMatchInTumor int
	LowQualDropped  int
	TotalNormal     int
	TotalTumor      int
}

// Select keeps tumor heterozygous-SNV VCF records that either match a normal
// record's REF/ALT at the same position or, absent a normal record there,
// have QUAL >= MinQual; a tumor record whose REF/ALT differs from the normal
// one is dropped. It then drops records whose position falls in either
// sample's lowest VarPctFull quality-tail, and returns the surviving tumor
// records sorted by position.
func Select(normal, tumor []*vcfio.Record, opts Options) ([]*vcfio.Record, Diagnostics) {
	normalByPos := make(map[int]*vcfio.Record)
	normalQual := make(map[int]float64)
	for _, r := range normal {
		if opts.Contig != "" && r.Contig != opts.Contig {
			continue
		}
		if !r.IsBiallelicSNV() || !r.IsHeterozygous() {
			continue
		}
		normalByPos[r.Pos] = r
		normalQual[r.Pos] = r.Qual
	}

	tumorByPos := make(map[int]*vcfio.Record)
	tumorQual := make(map[int]float64)
	intersect := make(map[int]bool)
	var diag Diagnostics
	for _, r := range tumor {
		if opts.Contig != "" && r.Contig != opts.Contig {
			continue
		}
		if !r.IsBiallelicSNV() || !r.IsHeterozygous() {
			continue
		}
		tumorQual[r.Pos] = r.Qual
		if nr, ok := normalByPos[r.Pos]; !ok {
			if r.Qual < opts.MinQual {
				diag.NotFoundInTumor++
				continue
			}
		} else if nr.Ref != r.Ref || nr.Alt != r.Alt {
			diag.NotMatchInTumor++
			continue
		}
		tumorByPos[r.Pos] = r
		intersect[r.Pos] = true
	}

	normalLowQual := lowestQuantileSet(normalQual, opts.VarPctFull)
	tumorLowQual := lowestQuantileSet(tumorQual, opts.VarPctFull)

	var passPositions []int
	for pos := range intersect {
		if normalLowQual[pos] || tumorLowQual[pos] {
			diag.LowQualDropped++
			continue
		}
		passPositions = append(passPositions, pos)
	}
	sort.Ints(passPositions)

	out := make([]*vcfio.Record, 0, len(passPositions))
	for _, pos := range passPositions {
		out = append(out, tumorByPos[pos])
	}

	diag.Selected = len(out)
	diag.TotalNormal = len(normalQual)
	diag.TotalTumor = len(tumorQual)
	return out, diag
}

// lowestQuantileSet returns the set of positions whose quality ranks among
// the lowest int(pct*N), ties broken by position for determinism.
func lowestQuantileSet(qual map[int]float64, pct float64) map[int]bool {
	type kv struct {
		pos  int
		qual float64
	}
	items := make([]kv, 0, len(qual))
	for pos, q := range qual {
		items = append(items, kv{pos, q})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].qual != items[j].qual {
			return items[i].qual < items[j].qual
		}
		return items[i].pos < items[j].pos
	})
	n := int(pct * float64(len(items)))
	set := make(map[int]bool, n)
	for i := 0; i < n && i < len(items); i++ {
		set[items[i].pos] = true
	}
	return set
}
