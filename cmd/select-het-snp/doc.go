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

/*
Command select-het-snp reads a normal/tumor VCF pair and writes the tumor's
heterozygous biallelic SNVs that match the normal's REF/ALT, plus tumor-only
ones with QUAL >= min_qual, dropping the lowest quality-tail
fraction of each sample's quality distribution. Its output feeds a
downstream read-phasing step; this tool only selects the sites.

Sample usage:

	select-het-snp \
	    --normal_vcf_fn normal.vcf \
	    --tumor_vcf_fn tumor.vcf \
	    --ctg_name chr20 \
	    --var_pct_full 0.3 \
	    --min_qual 15 \
	    --output_folder ./phasing_sites
*/
package main
