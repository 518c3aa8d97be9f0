// Copyright © 2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Command align-bench runs the alignment engine repeatedly on random
// sequences under a CPU or memory profiler, for developers chasing down
// allocation or hotspot regressions. Each invocation covers one mode and
// one reference/query length pair, chosen by flags; it does not sweep
// over several.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/pkg/profile"

	align "github.com/biocommons/goalign"
)

func main() {
	var (
		mode      = flag.String("mode", "global", "alignment mode: global, local, glocal, local_global")
		refLen    = flag.Int("ref-len", 5000, "reference sequence length")
		queryLen  = flag.Int("query-len", 5000, "query sequence length")
		reps      = flag.Int("reps", 20, "number of repetitions")
		scoreOnly = flag.Bool("score-only", false, "run the score-only kernel")
		profKind  = flag.String("profile", "cpu", "profile kind: cpu, mem, off")
		seed      = flag.Int64("seed", 1, "random seed for sequence generation")
	)
	flag.Parse()

	m, err := align.ParseMode(*mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "align-bench:", err)
		os.Exit(1)
	}

	switch *profKind {
	case "cpu":
		defer profile.Start(profile.CPUProfile).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile).Stop()
	case "off":
	default:
		fmt.Fprintln(os.Stderr, "align-bench: unknown -profile kind", *profKind)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	ref := randomBases(rng, *refLen)
	query := randomBases(rng, *queryLen)
	scoring := align.DefaultScoring()

	req := align.AlignRequest{
		Ref: ref, Query: query, Mode: m, Scoring: scoring, ScoreOnly: *scoreOnly,
	}

	var totalScore int64
	for r := 0; r < *reps; r++ {
		res, err := align.Align(req)
		if err != nil {
			fmt.Fprintln(os.Stderr, "align-bench:", err)
			os.Exit(1)
		}
		totalScore += res.Score
	}

	fmt.Printf("mode=%s ref_len=%d query_len=%d reps=%d score_only=%v total_score=%d\n",
		m, *refLen, *queryLen, *reps, *scoreOnly, totalScore)
}

var bases = [4]byte{'A', 'C', 'G', 'T'}

func randomBases(rng *rand.Rand, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = bases[rng.Intn(len(bases))]
	}
	return out
}
