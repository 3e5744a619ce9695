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

// Package pipeline drives one chunk end to end: two candidate generators
// (normal, tumor) feed a Merge, and every paired position is turned into a
// normal/tumor tensor pair plus alt-spectrum summaries and written out.
package pipeline

import (
	"io"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"

	"github.com/biopileup/svcandidate/bedtree"
	"github.com/biopileup/svcandidate/candidate"
	"github.com/biopileup/svcandidate/config"
	"github.com/biopileup/svcandidate/errs"
	"github.com/biopileup/svcandidate/pileup"
	"github.com/biopileup/svcandidate/record"
	"github.com/biopileup/svcandidate/reference"
	"github.com/biopileup/svcandidate/tensor"
)

// Config bundles everything one chunk invocation needs. NormalSource and
// TumorSource are the two text-pileup streams (production: samtools mpileup
// subprocess stdout; tests: an in-memory pileup.LineSource).
type Config struct {
	Profile config.Profile
	Contig  string

	// CtgStart/CtgEnd bound the chunk, 1-based, End exclusive. Zero/zero
	// means unbounded (whole contig).
	CtgStart, CtgEnd int

	NormalSource, TumorSource pileup.LineSource

	// ExtendBed widens candidate discovery to positions outside
	// [CtgStart, CtgEnd) that fall in the bed (may be nil).
	ExtendBed *bedtree.Tree
	// CandidatesBed restricts candidate emission to positions in the bed,
	// carrying the output variant-type tag (may be nil, meaning "every
	// position passing the AF gate is a candidate").
	CandidatesBed *bedtree.Tree
	// ConfidentBed gates tensor materialization to confident regions (may
	// be nil, meaning "materialize everywhere").
	ConfidentBed *bedtree.Tree
	// KnownVariants, when non-nil, bypasses the AF gate for listed
	// positions (the known-sites mode, spec.md §4.3).
	KnownVariants map[int]bool

	// Reference supplies the ref-window string written alongside each
	// tensor pair.
	Reference *reference.Contig

	// SkipIfNormalEmpty requires a tumor candidate to have also appeared
	// in the normal stream (the default pairing requirement, spec.md §4.4).
	SkipIfNormalEmpty bool

	// GlobalHap is an externally supplied phasing map (e.g. the output of
	// the het-SNP phasing selector) shared across both samples; may be nil.
	GlobalHap map[string]int

	// SampleMode, when true, disables OrderReads' deterministic subsample
	// for both samples (--tensor_sample_mode, SPEC_FULL.md §13). At a
	// position with a known TruthVariants entry, the tumor-side reads
	// matching the truth allele are additionally given subsample-survival
	// priority so the emitted tensor never drops them.
	SampleMode bool
	// TruthVariants, when non-nil, supplies the training-time truth allele
	// at a given 1-based position, consulted only when SampleMode is set.
	TruthVariants map[int]tensor.TruthVariant

	// AltFnWriter, when non-nil, is installed as the normal-side
	// generator's debug candidate-position dump (--alt_fn, SPEC_FULL.md
	// §13). The pileup-tensor CLI sets it only when --alt_fn is given.
	AltFnWriter io.Writer

	Writer *record.Writer
}

// Stats summarizes one Run call for the chunk-level diagnostic log line.
type Stats struct {
	Emitted            int
	SkippedUnconfident int
	NormalMalformed    int
	TumorMalformed     int
}

// Run drives Config's two generators to completion, writing one output
// record per paired candidate position. A row-level decode failure is
// counted (Stats.*Malformed) and the chunk continues; any other error is
// chunk-fatal and returned immediately.
func Run(cfg Config) (Stats, error) {
	if err := cfg.Profile.Validate(); err != nil {
		return Stats{}, err
	}
	if cfg.CtgStart != 0 || cfg.CtgEnd != 0 {
		if err := checkReference(cfg.Reference, cfg.CtgStart, cfg.CtgEnd); err != nil {
			return Stats{}, err
		}
	}

	normalGen := candidate.New(cfg.NormalSource, cfg.Profile, cfg.Contig, cfg.CtgStart, cfg.CtgEnd, false, cfg.ExtendBed, cfg.CandidatesBed, cfg.KnownVariants)
	tumorGen := candidate.New(cfg.TumorSource, cfg.Profile, cfg.Contig, cfg.CtgStart, cfg.CtgEnd, true, cfg.ExtendBed, cfg.CandidatesBed, cfg.KnownVariants)
	if cfg.AltFnWriter != nil {
		normalGen.SetAltFnWriter(cfg.AltFnWriter)
	}
	merge := candidate.NewMerge(normalGen, tumorGen, cfg.SkipIfNormalEmpty)

	var stats Stats
	for {
		pos, variantType, ok, err := merge.Next()
		if err != nil {
			return stats, errors.Wrap(err, "pipeline: candidate merge failed")
		}
		if !ok {
			break
		}

		emitted, err := emitOne(cfg, normalGen, tumorGen, pos, variantType)
		if err != nil {
			return stats, err
		}
		if emitted {
			stats.Emitted++
		} else {
			stats.SkippedUnconfident++
		}
	}

	stats.NormalMalformed = normalGen.MalformedCount()
	stats.TumorMalformed = tumorGen.MalformedCount()
	log.Printf("pipeline: chunk %s:%d-%d complete: %d emitted, %d skipped (unconfident), %d/%d malformed rows (normal/tumor)",
		cfg.Contig, cfg.CtgStart, cfg.CtgEnd, stats.Emitted, stats.SkippedUnconfident, stats.NormalMalformed, stats.TumorMalformed)
	return stats, nil
}

func emitOne(cfg Config, normalGen, tumorGen *candidate.Generator, pos int, variantType string) (bool, error) {
	normalWindow := normalGen.Window()
	tumorWindow := tumorGen.Window()

	normalOpts := tensor.Options{SampleMode: cfg.SampleMode}
	tumorOpts := tensor.Options{SampleMode: cfg.SampleMode}
	if cfg.SampleMode && cfg.TruthVariants != nil {
		if truth, ok := cfg.TruthVariants[pos]; ok {
			if center, ok := tumorWindow[pos]; ok {
				matchedTumor, _ := tensor.MatchTruthReads(center, truth, func(string) bool { return true })
				tumorOpts.PriorityReads = matchedTumor
			}
		}
	}

	normalOrdered := tensor.OrderReads(normalWindow, pos, cfg.Profile.F, cfg.Profile.NormalMatrixDepth, cfg.GlobalHap, normalGen.Haplotypes(), normalOpts)
	tumorOrdered := tensor.OrderReads(tumorWindow, pos, cfg.Profile.F, cfg.Profile.TumorMatrixDepth, cfg.GlobalHap, tumorGen.Haplotypes(), tumorOpts)

	normalTensor, ok := tensor.Build(cfg.Profile, cfg.Profile.NormalMatrixDepth, cfg.Contig, pos, normalOrdered, normalWindow, false, normalGen.Haplotypes(), cfg.ConfidentBed)
	if !ok {
		return false, nil
	}
	tumorTensor, ok := tensor.Build(cfg.Profile, cfg.Profile.TumorMatrixDepth, cfg.Contig, pos, tumorOrdered, tumorWindow, true, tumorGen.Haplotypes(), cfg.ConfidentBed)
	if !ok {
		return false, nil
	}

	refBase := byte('N')
	if cfg.Reference != nil {
		refBase = cfg.Reference.BaseAt(pos - 1)
	}

	deletedRefBases := func(length int) string {
		if cfg.Reference == nil {
			return ""
		}
		return cfg.Reference.Window(pos, pos+length)
	}

	var normalAlt, tumorAlt tensor.AltInfo
	if center, ok := normalWindow[pos]; ok {
		normalAlt = tensor.BuildAltInfo(center, refBase, deletedRefBases)
	}
	if center, ok := tumorWindow[pos]; ok {
		tumorAlt = tensor.BuildAltInfo(center, refBase, deletedRefBases)
	}

	refWindowStr := ""
	if cfg.Reference != nil {
		refStart := pos - 1 - cfg.Profile.F
		refWindowStr = cfg.Reference.Window(refStart, refStart+cfg.Profile.NoOfPositions())
	}

	err := cfg.Writer.Write(record.Record{
		Contig:        cfg.Contig,
		Pos:           pos,
		RefWindow:     refWindowStr,
		NormalTensor:  normalTensor,
		NormalAltInfo: normalAlt,
		TumorTensor:   tumorTensor,
		TumorAltInfo:  tumorAlt,
		VariantType:   variantType,
	})
	if err != nil {
		return false, errors.Wrapf(err, "pipeline: couldn't write record at %s:%d", cfg.Contig, pos)
	}
	return true, nil
}

// checkReference reports errs.ReferenceUnavailable when a chunk's reference
// window is unusable (entirely absent or all-N), the chunk-fatal condition
// described in spec.md §7. Run calls it once for a bounded chunk. Individual
// 'N' bases are tolerated: they appear as-is in the ref-window string, and
// pileup rows whose reference base is not A/C/G/T are skipped by the
// candidate generators.
func checkReference(ref *reference.Contig, ctgStart, ctgEnd int) error {
	if ref == nil {
		return errs.ReferenceUnavailable
	}
	if !ref.HasConfidentBases(ctgStart-1, ctgEnd-1) {
		return errors.Wrapf(errs.ReferenceUnavailable, "chunk %d-%d is entirely N bases", ctgStart, ctgEnd)
	}
	return nil
}
