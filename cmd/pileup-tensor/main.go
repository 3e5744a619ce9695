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

package main

import (
	"bufio"
	"compress/gzip"
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/biopileup/svcandidate/bedtree"
	"github.com/biopileup/svcandidate/config"
	"github.com/biopileup/svcandidate/pileup"
	"github.com/biopileup/svcandidate/pipeline"
	"github.com/biopileup/svcandidate/record"
	"github.com/biopileup/svcandidate/reference"
	"github.com/biopileup/svcandidate/tensor"
	"github.com/biopileup/svcandidate/vcfio"
)

var (
	normalBamFn  = flag.String("normal_bam_fn", "", "Normal-sample BAM path (required)")
	tumorBamFn   = flag.String("tumor_bam_fn", "", "Tumor-sample BAM path (required)")
	refFn        = flag.String("ref_fn", "", "Reference FASTA path (required)")
	ctgName      = flag.String("ctg_name", "", "Contig to process (required)")
	ctgStart     = flag.Int("ctg_start", 0, "1-based chunk start, inclusive; 0 means derive from chunk_id/chunk_num")
	ctgEnd       = flag.Int("ctg_end", 0, "1-based chunk end, exclusive; 0 means derive from chunk_id/chunk_num")
	chunkID      = flag.Int("chunk_id", 0, "0-based chunk index, used when ctg_start/ctg_end are unset")
	chunkNum     = flag.Int("chunk_num", 0, "Total chunk count, used when ctg_start/ctg_end are unset")
	faiFn        = flag.String("fai_fn", "", "Reference .fai index, required when deriving a chunk from chunk_id/chunk_num")
	bedFn        = flag.String("bed_fn", "", "Confident-region BED path, restricts tensor materialization")
	extendBedFn  = flag.String("extend_bed", "", "Extend BED path, widens candidate discovery past the chunk boundary")
	candBedFn    = flag.String("candidates_bed_regions", "", "Candidates BED path; when set, replaces the AF gate as the candidate-acceptance rule")
	vcfFn        = flag.String("vcf_fn", "", "Known-sites VCF path; when set, bypasses the AF gate for listed positions")
	snvMinAF     = flag.Float64("snv_min_af", -1, "SNV allele-fraction gate threshold; -1 uses the platform default")
	indelMinAF   = flag.Float64("indel_min_af", -1, "Indel allele-fraction gate threshold; -1 uses the platform default")
	minCoverage  = flag.Float64("min_coverage", -1, "Minimum depth for AF-gate acceptance; -1 uses the platform default")
	minMQ        = flag.Int("min_mq", -1, "Minimum mapping quality passed to samtools mpileup; -1 uses the platform default")
	minBQ        = flag.Int("min_bq", -1, "Minimum base quality passed to samtools mpileup; -1 uses the platform default")
	maxDepth     = flag.Int("max_depth", 0, "Overrides both sample matrix depths; 0 uses the platform defaults")
	phaseNormal  = flag.Bool("phase_normal", false, "Request HP haplotype tags from the normal-sample pileup")
	phaseTumor   = flag.Bool("phase_tumor", false, "Request HP haplotype tags from the tumor-sample pileup")
	tensorCanFn  = flag.String("tensor_can_fn", "", "Output tensor-record path (required); '-' means stdout")
	platformFlag = flag.String("platform", "ont", "Sequencing platform: ont, hifi, or ilmn")
	zstdOut      = flag.Bool("zstd", false, "zstd-compress the output tensor-record stream")

	tensorSampleMode = flag.Bool("tensor_sample_mode", false, "DEBUG: training mode, disable max-depth subsampling and prioritize truth_vcf_fn-matched tumor reads")
	truthVcfFn       = flag.String("truth_vcf_fn", "", "DEBUG: truth VCF consulted under tensor_sample_mode to pick subsample-priority reads")
	altFn            = flag.String("alt_fn", "", "DEBUG: gzip path receiving one 'contig pos' line per accepted normal-side candidate")
)

func pileupTensorUsage() {
	fmt.Printf("Usage: %s [OPTIONS]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = pileupTensorUsage
	shutdown := grail.Init()
	defer shutdown()
	flag.Parse()

	if *normalBamFn == "" || *tumorBamFn == "" || *refFn == "" || *ctgName == "" || *tensorCanFn == "" {
		log.Fatalf("normal_bam_fn, tumor_bam_fn, ref_fn, ctg_name, and tensor_can_fn are required")
	}

	profile := config.DefaultProfile(config.Platform(*platformFlag))
	if *snvMinAF >= 0 {
		profile.SNVMinAF = *snvMinAF
	}
	if *indelMinAF >= 0 {
		profile.IndelMinAF = *indelMinAF
	}
	if *minCoverage >= 0 {
		profile.MinCoverage = *minCoverage
	}
	if *minMQ >= 0 {
		profile.MinMQ = *minMQ
	}
	if *minBQ >= 0 {
		profile.MinBQ = *minBQ
	}
	if *maxDepth > 0 {
		profile.NormalMatrixDepth = *maxDepth
		profile.TumorMatrixDepth = *maxDepth
	}
	if err := profile.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	start, end := *ctgStart, *ctgEnd
	if start == 0 && end == 0 && *chunkNum > 0 {
		faiFile, err := os.Open(*faiFn)
		if err != nil {
			log.Fatalf("pileup-tensor: couldn't open fai_fn: %v", err)
		}
		cr, err := config.ChunkRangeFromFai(faiFile, *ctgName, *chunkID, *chunkNum)
		faiFile.Close()
		if err != nil {
			log.Fatalf("pileup-tensor: couldn't derive chunk range: %v", err)
		}
		start, end = cr.Start, cr.End
	}

	refFile, err := os.Open(*refFn)
	if err != nil {
		log.Fatalf("pileup-tensor: couldn't open ref_fn: %v", err)
	}
	contig, err := reference.Load(bufio.NewReader(refFile), *ctgName)
	refFile.Close()
	if err != nil {
		log.Panicf("%v", err)
	}

	var confidentBed *bedtree.Tree
	if *bedFn != "" {
		confidentBed = loadBed(*bedFn, *ctgName)
	}
	var extendBed *bedtree.Tree
	if *extendBedFn != "" {
		extendBed = loadBed(*extendBedFn, *ctgName)
	}
	var candidatesBed *bedtree.Tree
	if *candBedFn != "" {
		candidatesBed = loadBed(*candBedFn, *ctgName)
	}

	var knownVariants map[int]bool
	if *vcfFn != "" {
		vcfFile, err := os.Open(*vcfFn)
		if err != nil {
			log.Fatalf("pileup-tensor: couldn't open vcf_fn: %v", err)
		}
		records, _, err := vcfio.ReadAll(vcfFile)
		vcfFile.Close()
		if err != nil {
			log.Fatalf("pileup-tensor: couldn't read vcf_fn: %v", err)
		}
		knownVariants = make(map[int]bool)
		for _, r := range records {
			if r.Contig == *ctgName {
				knownVariants[r.Pos] = true
			}
		}
	}

	var truthVariants map[int]tensor.TruthVariant
	if *tensorSampleMode && *truthVcfFn != "" {
		truthFile, err := os.Open(*truthVcfFn)
		if err != nil {
			log.Fatalf("pileup-tensor: couldn't open truth_vcf_fn: %v", err)
		}
		records, _, err := vcfio.ReadAll(truthFile)
		truthFile.Close()
		if err != nil {
			log.Fatalf("pileup-tensor: couldn't read truth_vcf_fn: %v", err)
		}
		truthVariants = make(map[int]tensor.TruthVariant)
		for _, r := range records {
			if r.Contig == *ctgName {
				truthVariants[r.Pos] = tensor.TruthVariant{Ref: r.Ref, Alt: r.Alt}
			}
		}
	}

	var altFnFile *os.File
	var altFnGz *gzip.Writer
	if *altFn != "" {
		altFnFile, err = os.Create(*altFn)
		if err != nil {
			log.Fatalf("pileup-tensor: couldn't create alt_fn: %v", err)
		}
		defer altFnFile.Close()
		altFnGz = gzip.NewWriter(altFnFile)
		defer altFnGz.Close()
	}

	normalStream, err := startMpileup(*normalBamFn, *refFn, *ctgName, start, end, profile, *phaseNormal)
	if err != nil {
		log.Panicf("%v", err)
	}
	defer normalStream.Close()
	tumorStream, err := startMpileup(*tumorBamFn, *refFn, *ctgName, start, end, profile, *phaseTumor)
	if err != nil {
		log.Panicf("%v", err)
	}
	defer tumorStream.Close()

	var out *os.File
	if *tensorCanFn == "-" {
		out = os.Stdout
	} else {
		out, err = os.Create(*tensorCanFn)
		if err != nil {
			log.Fatalf("pileup-tensor: couldn't create tensor_can_fn: %v", err)
		}
		defer out.Close()
	}

	var writer *record.Writer
	if *zstdOut {
		writer, err = record.NewZstdWriter(out)
		if err != nil {
			log.Panicf("%v", err)
		}
	} else {
		writer = record.NewWriter(out)
	}

	cfg := pipeline.Config{
		Profile:           profile,
		Contig:            *ctgName,
		CtgStart:          start,
		CtgEnd:            end,
		NormalSource:      pileup.NewScannerSource(normalStream),
		TumorSource:       pileup.NewScannerSource(tumorStream),
		ExtendBed:         extendBed,
		CandidatesBed:     candidatesBed,
		ConfidentBed:      confidentBed,
		KnownVariants:     knownVariants,
		Reference:         contig,
		SkipIfNormalEmpty: true,
		SampleMode:        *tensorSampleMode,
		TruthVariants:     truthVariants,
		Writer:            writer,
	}
	if altFnGz != nil {
		cfg.AltFnWriter = altFnGz
	}

	stats, err := pipeline.Run(cfg)
	if err != nil {
		log.Panicf("%v", err)
	}
	if err := writer.Flush(); err != nil {
		log.Panicf("%v", err)
	}
	log.Printf("pileup-tensor: done, %d positions emitted", stats.Emitted)
}

func loadBed(path, contig string) *bedtree.Tree {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("pileup-tensor: couldn't open bed %q: %v", path, err)
	}
	defer f.Close()
	tree, err := bedtree.Load(f, map[string]bool{contig: true})
	if err != nil {
		log.Fatalf("pileup-tensor: couldn't load bed %q: %v", path, err)
	}
	return tree
}
