package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"

	"Nanopore-HMM-Basecaller/basecaller/caller"
	"Nanopore-HMM-Basecaller/basecaller/common"
	"Nanopore-HMM-Basecaller/basecaller/config"
	"Nanopore-HMM-Basecaller/basecaller/hmm"
	"Nanopore-HMM-Basecaller/basecaller/io"
	"Nanopore-HMM-Basecaller/basecaller/metrics"
	"Nanopore-HMM-Basecaller/basecaller/sequence"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s -model MODEL.tsv [flags] EVENTS...\n\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	defaults := config.Default()
	modelPath := flag.String("model", "", "pore model table (kmer, mean, stdev, ...)")
	outPath := flag.String("o", "", "FASTA output file (default stdout)")
	stay := flag.Float64("stay", defaults.ProbStay, "probability of staying in a k-mer")
	skip := flag.Float64("skip", defaults.ProbSkip, "probability of skipping one base")
	scale := flag.Float64("scale", defaults.Scale, "signal scale")
	shift := flag.Float64("shift", defaults.Shift, "signal shift")
	autoScale := flag.Bool("auto-scale", false, "estimate scale/shift per read from event moments")
	alphabet := flag.String("alphabet", defaults.Alphabet, "declared alphabet (default: inferred from the model)")
	renormalize := flag.Bool("renormalize", false, "accept models with missing k-mers and renormalize transitions")
	workers := flag.Int("workers", config.DefaultWorkers, "reads decoded in parallel")
	samples := flag.Int("samples", config.DefaultSamples, "stochastic tracebacks per read")
	seed := flag.Uint64("seed", config.DefaultSeed, "sampling seed")
	revcomp := flag.Bool("revcomp", false, "output the reverse complement of each call")
	metricsPath := flag.String("metrics-file", "", "write Prometheus metrics in text format to this file")
	flag.Usage = usage
	flag.Parse()
	defer glog.Flush()

	if *modelPath == "" || flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	params := config.Params{
		ProbStay:     *stay,
		ProbSkip:     *skip,
		Scale:        *scale,
		Shift:        *shift,
		AutoScale:    *autoScale,
		Alphabet:     *alphabet,
		Completeness: config.Strict,
	}
	if *renormalize {
		params.Completeness = config.Renormalize
	}

	if err := run(params, *modelPath, flag.Args(), *outPath, *workers, *samples, *seed, *revcomp, *metricsPath); err != nil {
		glog.Errorf("%s: %v", common.Classify(err), err)
		glog.Flush()
		os.Exit(1)
	}
}

func run(params config.Params, modelPath string, eventPaths []string, outPath string, workers, samples int, seed uint64, revcomp bool, metricsPath string) error {
	records, err := io.ReadModel(modelPath)
	if err != nil {
		return err
	}
	model, err := hmm.NewModel(records, params)
	if err != nil {
		return err
	}

	reads := make([]common.Read, 0, len(eventPaths))
	for _, p := range eventPaths {
		read, err := io.ReadEvents(p)
		if err != nil {
			return err
		}
		reads = append(reads, read)
	}

	met := metrics.New(prometheus.DefaultRegisterer)
	bc, err := caller.New(model, params, caller.Options{Samples: samples, Seed: seed, Metrics: met})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bar := progressbar.Default(int64(len(reads)), "basecalling")
	startTime := time.Now()
	calls, err := bc.CallAll(ctx, reads, workers, func(*common.Call) { _ = bar.Add(1) })
	_ = bar.Finish()
	if err != nil {
		return err
	}

	bases := 0
	for _, c := range calls {
		if c == nil {
			continue
		}
		if revcomp {
			c.Sequence = sequence.ReverseComplement(c.Sequence)
			for i, s := range c.Samples {
				c.Samples[i] = sequence.ReverseComplement(s)
			}
		}
		bases += len(c.Sequence)
	}
	glog.Infof("%d reads, %d bases in %.2f seconds", len(reads), bases, time.Since(startTime).Seconds())

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := io.WriteFASTA(out, calls); err != nil {
		return err
	}

	if metricsPath != "" {
		if err := prometheus.WriteToTextfile(metricsPath, prometheus.DefaultGatherer); err != nil {
			return err
		}
	}
	return nil
}
