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
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"

	"github.com/biopileup/svcandidate/phasing"
	"github.com/biopileup/svcandidate/vcfio"
)

var (
	normalVcfFn  = flag.String("normal_vcf_fn", "", "Normal-sample VCF path (required)")
	tumorVcfFn   = flag.String("tumor_vcf_fn", "", "Tumor-sample VCF path (required)")
	ctgName      = flag.String("ctg_name", "", "Restrict selection to this contig; empty means no restriction")
	varPctFull   = flag.Float64("var_pct_full", 0.3, "Fraction of each sample's lowest-quality sites to drop")
	minQual      = flag.Float64("min_qual", 0, "Minimum QUAL for a tumor-only site to be considered at all")
	outputFolder = flag.String("output_folder", ".", "Directory to write the selected-sites VCF into")
)

func selectHetSNPUsage() {
	fmt.Printf("Usage: %s [OPTIONS]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = selectHetSNPUsage
	shutdown := grail.Init()
	defer shutdown()
	flag.Parse()

	if *normalVcfFn == "" || *tumorVcfFn == "" {
		log.Fatalf("normal_vcf_fn and tumor_vcf_fn are required")
	}

	normalFile, err := os.Open(*normalVcfFn)
	if err != nil {
		log.Fatalf("select-het-snp: couldn't open normal_vcf_fn: %v", err)
	}
	normalRecords, header, err := vcfio.ReadAll(normalFile)
	normalFile.Close()
	if err != nil {
		log.Panicf("%v", err)
	}

	tumorFile, err := os.Open(*tumorVcfFn)
	if err != nil {
		log.Fatalf("select-het-snp: couldn't open tumor_vcf_fn: %v", err)
	}
	tumorRecords, _, err := vcfio.ReadAll(tumorFile)
	tumorFile.Close()
	if err != nil {
		log.Panicf("%v", err)
	}

	selected, diag := phasing.Select(normalRecords, tumorRecords, phasing.Options{
		Contig:     *ctgName,
		VarPctFull: *varPctFull,
		MinQual:    *minQual,
	})
	log.Printf("select-het-snp: selected=%d not_found_in_tumor=%d not_match_in_tumor=%d low_qual_dropped=%d total_normal=%d total_tumor=%d",
		diag.Selected, diag.NotFoundInTumor, diag.NotMatchInTumor, diag.LowQualDropped, diag.TotalNormal, diag.TotalTumor)

	if err := os.MkdirAll(*outputFolder, 0o755); err != nil {
		log.Fatalf("select-het-snp: couldn't create output_folder: %v", err)
	}
	outPath := filepath.Join(*outputFolder, "het_snp_for_phasing.vcf")
	outFile, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("select-het-snp: couldn't create output file: %v", err)
	}
	defer outFile.Close()

	w := bufio.NewWriter(outFile)
	for _, line := range header {
		if _, err := w.WriteString(line + "\n"); err != nil {
			log.Panicf("%v", err)
		}
	}
	for _, r := range selected {
		if _, err := w.WriteString(r.Line + "\n"); err != nil {
			log.Panicf("%v", err)
		}
	}
	if err := w.Flush(); err != nil {
		log.Panicf("%v", err)
	}
}
