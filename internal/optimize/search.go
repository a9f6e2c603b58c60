package optimize

import (
	"context"
	"fmt"
	"image"
	"time"
)

// Encoder is one encode attempt: pixels in, compressed bytes out.
// Implementations must be safe for concurrent use across searches.
type Encoder interface {
	Encode(img image.Image, quality int) ([]byte, error)
}

// Resizer produces a resampled copy at the requested dimensions.
type Resizer interface {
	Resize(img image.Image, width, height int) image.Image
}

// searchState is the mutable loop state. Owned exclusively by one Search
// call; never shared.
type searchState struct {
	best      []byte
	bestSize  int64
	bestQ     int
	bestScale float64
	bestW     int
	bestH     int
	probes    int
}

func (s *searchState) record(data []byte, quality int, scale float64, w, h int) {
	s.best = data
	s.bestSize = int64(len(data))
	s.bestQ = quality
	s.bestScale = scale
	s.bestW = w
	s.bestH = h
}

// Search drives the adaptive size-targeting loop: sweep quality from
// MaxQuality down to MinQuality at a fixed working resolution, then shrink
// the resolution by ScaleStep and sweep again, until a probe fits the
// byte budget or a floor stops the descent.
//
// The search assumes encoded size is non-increasing as quality or scale
// decrease. It never re-probes a (quality, scale) pair and never reverts
// best-so-far to a higher quality. The only side effects are calls to enc
// and rz; no I/O happens inside the loop.
//
// ctx is consulted before each probe; cancellation surfaces as ctx.Err().
func Search(ctx context.Context, img image.Image, desc Descriptor, cfg Config, enc Encoder, rz Resizer) ([]byte, Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Report{}, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	// Dimension policy, applied once: cap the orientation's long side at
	// MaxDimension, never upscale. All scale tracking is relative to this
	// base resolution.
	baseW, baseH := capDimensions(desc, cfg.MaxDimension)
	base := img
	if baseW != desc.Width || baseH != desc.Height {
		base = rz.Resize(img, baseW, baseH)
	}

	st := &searchState{bestQ: cfg.MaxQuality, bestScale: 1.0, bestW: baseW, bestH: baseH}

	scale := 1.0
	working := base
	w, h := baseW, baseH
	stalled := 0
	prevBest := int64(0)

	for {
		reason, done, err := sweepQualities(ctx, working, cfg, enc, st, scale, w, h)
		if err != nil {
			return nil, Report{}, err
		}
		if done {
			return finish(st, reason, start)
		}

		// Stall guard: dimension rounds that stop shrinking the output by
		// a meaningful margin bound the probe count on incompressible
		// inputs.
		if prevBest > 0 {
			improved := float64(prevBest-st.bestSize) / float64(prevBest)
			if improved < cfg.MinImprovement {
				stalled++
			} else {
				stalled = 0
			}
			if stalled >= cfg.StallRounds {
				return finish(st, ReasonStall, start)
			}
		}
		prevBest = st.bestSize

		next := scale * cfg.ScaleStep
		if next < cfg.MinScale {
			return finish(st, ReasonDimensionFloor, start)
		}
		scale = next
		w = int(float64(baseW) * scale)
		h = int(float64(baseH) * scale)
		if w < 1 || h < 1 {
			return finish(st, ReasonDimensionFloor, start)
		}
		// Resample from the base image each round, not from the previous
		// round's output, so resampling error does not compound.
		working = rz.Resize(base, w, h)
	}
}

// sweepQualities runs one quality-reduction round at a fixed resolution.
// Returns done=true with a terminal reason when the search should stop.
func sweepQualities(ctx context.Context, working image.Image, cfg Config, enc Encoder, st *searchState, scale float64, w, h int) (Reason, bool, error) {
	quality := cfg.MaxQuality
	for {
		if err := ctx.Err(); err != nil {
			return 0, false, err
		}
		if st.probes >= cfg.MaxProbes {
			return ReasonQualityFloor, true, nil
		}

		data, err := enc.Encode(working, quality)
		if err != nil {
			return 0, false, fmt.Errorf("%w: quality %d at %dx%d: %v", ErrEncodeProbe, quality, w, h, err)
		}
		st.probes++
		size := int64(len(data))

		if size <= cfg.TargetBytes {
			// Met the budget: this probe is the result, even if an earlier
			// one was smaller -- quality is preferred once under target.
			st.record(data, quality, scale, w, h)
			return ReasonTargetMet, true, nil
		}
		if st.best == nil || size < st.bestSize {
			st.record(data, quality, scale, w, h)
		}

		// Lossless formats ignore quality; one probe per round.
		if cfg.Format.Lossless() {
			return 0, false, nil
		}
		if quality-cfg.QualityStep < cfg.MinQuality {
			return 0, false, nil
		}
		quality -= cfg.QualityStep
	}
}

func finish(st *searchState, reason Reason, start time.Time) ([]byte, Report, error) {
	return st.best, Report{
		Quality: st.bestQ,
		Scale:   st.bestScale,
		Width:   st.bestW,
		Height:  st.bestH,
		Bytes:   st.bestSize,
		Probes:  st.probes,
		Reason:  reason,
		Elapsed: time.Since(start),
	}, nil
}

// capDimensions applies the orientation-aware dimension cap. Downscale
// only; images within the cap keep their original resolution.
func capDimensions(desc Descriptor, maxDim int) (int, int) {
	w, h := desc.Width, desc.Height
	switch desc.Orientation {
	case Landscape:
		if w > maxDim {
			return maxDim, int(float64(h) * float64(maxDim) / float64(w))
		}
	case Portrait:
		if h > maxDim {
			return int(float64(w) * float64(maxDim) / float64(h)), maxDim
		}
	case Square:
		if w > maxDim {
			return maxDim, maxDim
		}
	}
	return w, h
}
