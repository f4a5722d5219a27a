package mosaic

import "fmt"

// BlendPolicy is the rule for combining multiple tiles' contributions to
// the same destination pixel.
type BlendPolicy uint8

const (
	// BlendOverwrite makes the later-registered tile win (last write wins).
	// This is the default.
	BlendOverwrite BlendPolicy = iota

	// BlendMax keeps the per-channel maximum over contributing tiles.
	BlendMax

	// BlendAverage keeps the running mean over contributing tiles.
	BlendAverage
)

// String returns a string representation of the blend policy.
func (p BlendPolicy) String() string {
	switch p {
	case BlendOverwrite:
		return "overwrite"
	case BlendMax:
		return "max"
	case BlendAverage:
		return "average"
	default:
		return "unknown"
	}
}

// ResampleMethod defines how tile pixels are sampled during inverse-warp
// resampling.
type ResampleMethod uint8

const (
	// ResampleNearest selects the closest pixel (no interpolation).
	// This is the default.
	ResampleNearest ResampleMethod = iota

	// ResampleBilinear interpolates between the 4 neighboring pixels.
	ResampleBilinear
)

// String returns a string representation of the resample method.
func (m ResampleMethod) String() string {
	switch m {
	case ResampleNearest:
		return "nearest"
	case ResampleBilinear:
		return "bilinear"
	default:
		return "unknown"
	}
}

// Dtype is the element type chunk buffers are converted to on output.
// The fusion kernel always computes in float32; sinks apply the dtype.
type Dtype uint8

const (
	// DtypeFloat32 writes raw float32 values. This is the default.
	DtypeFloat32 Dtype = iota

	// DtypeUint8 rounds and clamps to [0, 255].
	DtypeUint8

	// DtypeUint16 rounds and clamps to [0, 65535].
	DtypeUint16
)

// String returns a string representation of the dtype.
func (d Dtype) String() string {
	switch d {
	case DtypeFloat32:
		return "float32"
	case DtypeUint8:
		return "uint8"
	case DtypeUint16:
		return "uint16"
	default:
		return "unknown"
	}
}

// Size returns the element size in bytes.
func (d Dtype) Size() int {
	switch d {
	case DtypeUint8:
		return 1
	case DtypeUint16:
		return 2
	default:
		return 4
	}
}

// FailurePolicy decides what happens to the job when one chunk fails.
type FailurePolicy uint8

const (
	// AbortJob stops the whole job at the first failed chunk.
	// This is the default.
	AbortJob FailurePolicy = iota

	// SkipChunk records the failed chunk in the job report and keeps
	// fusing the remaining chunks. Failed chunks are never written.
	SkipChunk
)

// String returns a string representation of the failure policy.
func (p FailurePolicy) String() string {
	switch p {
	case AbortJob:
		return "abort"
	case SkipChunk:
		return "skip"
	default:
		return "unknown"
	}
}

// Option configures a Fuser during creation.
// Use functional options to customize Fuser behavior.
//
// Example:
//
//	f, err := mosaic.NewFuser(
//		mosaic.WithChunkSize(2048, 2048),
//		mosaic.WithBlend(mosaic.BlendAverage),
//	)
type Option func(*fuserOptions)

// fuserOptions holds the configuration assembled from Options.
type fuserOptions struct {
	chunkH, chunkW int
	blend          BlendPolicy
	resample       ResampleMethod
	dtype          Dtype
	failure        FailurePolicy
	workers        int
}

// defaultOptions returns the default fuser configuration.
func defaultOptions() fuserOptions {
	return fuserOptions{
		chunkH:   1024,
		chunkW:   1024,
		blend:    BlendOverwrite,
		resample: ResampleNearest,
		dtype:    DtypeFloat32,
		failure:  AbortJob,
		workers:  0, // GOMAXPROCS
	}
}

// validate checks the assembled configuration. Violations wrap
// ErrInvalidConfig.
func (o *fuserOptions) validate() error {
	if o.chunkH <= 0 || o.chunkW <= 0 {
		return fmt.Errorf("%w: chunk size (%d, %d) must be positive", ErrInvalidConfig, o.chunkH, o.chunkW)
	}
	if o.blend > BlendAverage {
		return fmt.Errorf("%w: unsupported blend policy %d", ErrInvalidConfig, o.blend)
	}
	if o.resample > ResampleBilinear {
		return fmt.Errorf("%w: unsupported resample method %d", ErrInvalidConfig, o.resample)
	}
	if o.dtype > DtypeUint16 {
		return fmt.Errorf("%w: unsupported output dtype %d", ErrInvalidConfig, o.dtype)
	}
	if o.failure > SkipChunk {
		return fmt.Errorf("%w: unsupported failure policy %d", ErrInvalidConfig, o.failure)
	}
	return nil
}

// WithChunkSize sets the chunk dimensions (height, width) in pixels.
// Both must be positive. The default is 1024x1024.
func WithChunkSize(h, w int) Option {
	return func(o *fuserOptions) {
		o.chunkH = h
		o.chunkW = w
	}
}

// WithBlend sets the blend policy. The default is BlendOverwrite.
func WithBlend(p BlendPolicy) Option {
	return func(o *fuserOptions) {
		o.blend = p
	}
}

// WithResample sets the resample method. The default is ResampleNearest.
func WithResample(m ResampleMethod) Option {
	return func(o *fuserOptions) {
		o.resample = m
	}
}

// WithOutputDtype sets the element type sinks should write.
// The default is DtypeFloat32.
func WithOutputDtype(d Dtype) Option {
	return func(o *fuserOptions) {
		o.dtype = d
	}
}

// WithFailurePolicy sets the job-level reaction to a failed chunk.
// The default is AbortJob.
func WithFailurePolicy(p FailurePolicy) Option {
	return func(o *fuserOptions) {
		o.failure = p
	}
}

// WithWorkers sets the number of chunk workers.
// Zero or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *fuserOptions) {
		o.workers = n
	}
}
