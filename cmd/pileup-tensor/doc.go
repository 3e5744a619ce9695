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
Command pileup-tensor enumerates paired somatic candidate positions from a
normal/tumor BAM pair and emits normal/tumor read tensors at each one, for
consumption by a downstream somatic classifier.

Sample usage:

	pileup-tensor \
	    --normal_bam_fn normal.bam \
	    --tumor_bam_fn tumor.bam \
	    --ref_fn ref.fa \
	    --ctg_name chr20 \
	    --ctg_start 1 \
	    --ctg_end 1000000 \
	    --platform ont \
	    --tensor_can_fn chr20.tensor
*/
package main
