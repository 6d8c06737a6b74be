package caller

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"Nanopore-HMM-Basecaller/basecaller/common"
	"Nanopore-HMM-Basecaller/basecaller/config"
	"Nanopore-HMM-Basecaller/basecaller/decoder"
	"Nanopore-HMM-Basecaller/basecaller/hmm"
	"Nanopore-HMM-Basecaller/basecaller/metrics"
	"Nanopore-HMM-Basecaller/basecaller/scaling"
	"Nanopore-HMM-Basecaller/basecaller/segments"
	"Nanopore-HMM-Basecaller/basecaller/sequence"
	"Nanopore-HMM-Basecaller/basecaller/translate"
)

// Options tunes a Basecaller beyond the model parameters.
type Options struct {
	Samples int    // stochastic tracebacks per read; 0 disables the forward pass
	Seed    uint64 // base seed for sampling, mixed with the read ID
	Metrics *metrics.Metrics
}

// Basecaller turns reads into base sequences with one shared model.
// It is safe for concurrent use.
type Basecaller struct {
	model   *hmm.Model
	params  config.Params
	opts    Options
	decoder *decoder.Decoder
	trans   *translate.Translator
}

// New checks params and prepares a decoder and translator over model.
func New(model *hmm.Model, params config.Params, opts Options) (*Basecaller, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if opts.Samples < 0 {
		return nil, fmt.Errorf("%w: negative sample count %d", common.ErrInvalidConfiguration, opts.Samples)
	}
	return &Basecaller{
		model:   model,
		params:  params,
		opts:    opts,
		decoder: decoder.ForModel(model),
		trans:   translate.New(model.Space),
	}, nil
}

// calibration picks the fixed calibration or, with AutoScale, estimates one
// from the read and falls back to the fixed values if that fails.
func (b *Basecaller) calibration(read common.Read) scaling.Calibration {
	fixed := scaling.FromParams(b.params)
	if !b.params.AutoScale {
		return fixed
	}
	c, err := scaling.Estimate(read.Events, b.model.Space.Means())
	if err != nil {
		glog.Warningf("read %s: cannot estimate scaling, using scale=%g shift=%g: %v", read.ID, fixed.Scale, fixed.Shift, err)
		return fixed
	}
	return c
}

// Call decodes a single read.
func (b *Basecaller) Call(ctx context.Context, read common.Read) (*common.Call, error) {
	if read.ID == "" {
		read.ID = uuid.NewString()
	}
	if len(read.Events) == 0 {
		b.opts.Metrics.Observe(metrics.Viterbi, time.Now(), common.ErrEmptyObservations)
		return nil, fmt.Errorf("read %s: %w", read.ID, common.ErrEmptyObservations)
	}

	calib := b.calibration(read)
	obs := calib.Apply(read.Events)

	startTime := time.Now()
	res, err := b.decoder.Viterbi(ctx, obs)
	b.opts.Metrics.Observe(metrics.Viterbi, startTime, err)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", read.ID, err)
	}

	seq, err := b.trans.Translate(res.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", read.ID, err)
	}

	call := &common.Call{
		ID:        read.ID,
		Sequence:  seq,
		Path:      res.Path,
		LogProb:   res.Score.Log(),
		Segments:  segments.Collapse(res.Path),
		GCContent: sequence.CalculateGCContent(seq),
		Scale:     calib.Scale,
		Shift:     calib.Shift,
	}

	if b.opts.Samples > 0 {
		samples, err := b.sample(ctx, read.ID, obs)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", read.ID, err)
		}
		call.Samples = samples
	}

	b.opts.Metrics.Called(len(read.Events), len(seq))
	if glog.V(1) {
		glog.Infof("read %s: %d events -> %d bases in %d segments, logp=%.3f, gc=%.3f (%.2fs)",
			read.ID, len(read.Events), len(seq), len(call.Segments), call.LogProb, call.GCContent, time.Since(startTime).Seconds())
	}
	return call, nil
}

// sample runs the forward pass and translates stochastic tracebacks.
func (b *Basecaller) sample(ctx context.Context, id string, obs []float64) ([]string, error) {
	startTime := time.Now()
	table, err := b.decoder.Forward(ctx, obs)
	b.opts.Metrics.Observe(metrics.Forward, startTime, err)
	if err != nil {
		return nil, err
	}

	h := fnv.New64a()
	h.Write([]byte(id))
	startTime = time.Now()
	paths, err := b.decoder.Sample(ctx, table, b.opts.Samples, b.opts.Seed^h.Sum64())
	b.opts.Metrics.Observe(metrics.Sample, startTime, err)
	if err != nil {
		return nil, err
	}

	seqs := make([]string, len(paths))
	for i, p := range paths {
		if seqs[i], err = b.trans.Translate(p); err != nil {
			return nil, err
		}
	}
	return seqs, nil
}

// CallAll decodes reads with at most workers in flight. Results keep the
// input order; reads without events are logged and left nil. Any other error
// cancels the remaining work. onDone, if set, is called once per read from
// the worker goroutines (with nil for skipped reads) and must be safe for
// concurrent use.
func (b *Basecaller) CallAll(ctx context.Context, reads []common.Read, workers int, onDone func(*common.Call)) ([]*common.Call, error) {
	if workers <= 0 {
		workers = config.DefaultWorkers
	}
	results := make([]*common.Call, len(reads))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	startTime := time.Now()
	for i := range reads {
		g.Go(func() error {
			c, err := b.Call(ctx, reads[i])
			if errors.Is(err, common.ErrEmptyObservations) {
				glog.Warningf("skipping %v", err)
				err = nil
			}
			if err != nil {
				return err
			}
			results[i] = c
			if onDone != nil {
				onDone(c)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	glog.Infof("called %d reads with %d workers in %.2f seconds", len(reads), workers, time.Since(startTime).Seconds())
	return results, nil
}
