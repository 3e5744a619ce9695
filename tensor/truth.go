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
	"strings"

	"github.com/biopileup/svcandidate/pileup"
)

// TruthVariant is the minimal shape MatchTruthReads needs from a truth VCF
// record: the REF/ALT pair at a position.
type TruthVariant struct {
	Ref, Alt string
}

// SampleTagFunc classifies a read name as belonging to the tumor or normal
// sample. The upstream tool inferred this from a read-name prefix
// convention ('t'/'n') that is never specified in the wire format; callers
// that rely on such a convention must supply it explicitly here rather than
// have it assumed implicitly by the pipeline.
type SampleTagFunc func(readName string) (isTumor bool)

// MatchTruthReads partitions a center position's reads into tumor reads
// that carry the truth variant's allele and the set of normal reads, using
// tagFn to tell tumor and normal reads apart. This is training-mode-only
// machinery (truth-matched read identification for supervised tensor
// labeling); production candidate discovery never calls it.
func MatchTruthReads(center *pileup.Position, truth TruthVariant, tagFn SampleTagFunc) (matchedTumor, normalReads map[string]bool) {
	matchedTumor = make(map[string]bool)
	normalReads = make(map[string]bool)

	isIns := len(truth.Alt) > 1 && len(truth.Ref) == 1
	isDel := len(truth.Ref) > 1 && len(truth.Alt) == 1
	isSNV := len(truth.Ref) == 1 && len(truth.Alt) == 1

	for i, name := range center.ReadName {
		if !tagFn(name) {
			normalReads[name] = true
			continue
		}
		call := center.Call[i]
		baseUpper := strings.ToUpper(string(call.Base))
		switch {
		case isIns && len(call.Indel) > 1 && strings.ToUpper(call.Indel[1:]) == truth.Alt[1:]:
			matchedTumor[name] = true
		case isDel && len(call.Indel) > 1 && strings.ToUpper(call.Indel[1:]) == truth.Ref[1:]:
			matchedTumor[name] = true
		case isSNV && baseUpper == truth.Alt:
			matchedTumor[name] = true
		}
	}
	return matchedTumor, normalReads
}
