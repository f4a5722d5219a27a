package mosaic

import (
	"errors"
	"testing"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{"defaults", nil, false},
		{"custom chunk", []Option{WithChunkSize(2048, 2048)}, false},
		{"all set", []Option{
			WithChunkSize(256, 512),
			WithBlend(BlendAverage),
			WithResample(ResampleBilinear),
			WithOutputDtype(DtypeUint16),
			WithFailurePolicy(SkipChunk),
			WithWorkers(4),
		}, false},
		{"zero chunk height", []Option{WithChunkSize(0, 64)}, true},
		{"negative chunk width", []Option{WithChunkSize(64, -1)}, true},
		{"bad blend", []Option{WithBlend(BlendPolicy(99))}, true},
		{"bad resample", []Option{WithResample(ResampleMethod(99))}, true},
		{"bad dtype", []Option{WithOutputDtype(Dtype(99))}, true},
		{"bad failure policy", []Option{WithFailurePolicy(FailurePolicy(99))}, true},
		{"negative workers ok", []Option{WithWorkers(-3)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions()
			for _, o := range tt.opts {
				o(&opts)
			}
			err := opts.validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := defaultOptions()
	if opts.chunkH != 1024 || opts.chunkW != 1024 {
		t.Errorf("default chunk size = (%d, %d), want (1024, 1024)", opts.chunkH, opts.chunkW)
	}
	if opts.blend != BlendOverwrite {
		t.Errorf("default blend = %v, want overwrite", opts.blend)
	}
	if opts.resample != ResampleNearest {
		t.Errorf("default resample = %v, want nearest", opts.resample)
	}
	if opts.dtype != DtypeFloat32 {
		t.Errorf("default dtype = %v, want float32", opts.dtype)
	}
	if opts.failure != AbortJob {
		t.Errorf("default failure policy = %v, want abort", opts.failure)
	}
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{BlendOverwrite.String(), "overwrite"},
		{BlendMax.String(), "max"},
		{BlendAverage.String(), "average"},
		{BlendPolicy(99).String(), "unknown"},
		{ResampleNearest.String(), "nearest"},
		{ResampleBilinear.String(), "bilinear"},
		{ResampleMethod(99).String(), "unknown"},
		{DtypeFloat32.String(), "float32"},
		{DtypeUint8.String(), "uint8"},
		{DtypeUint16.String(), "uint16"},
		{Dtype(99).String(), "unknown"},
		{AbortJob.String(), "abort"},
		{SkipChunk.String(), "skip"},
		{FailurePolicy(99).String(), "unknown"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}

func TestDtypeSize(t *testing.T) {
	tests := []struct {
		dtype Dtype
		want  int
	}{
		{DtypeFloat32, 4},
		{DtypeUint8, 1},
		{DtypeUint16, 2},
	}
	for _, tt := range tests {
		if got := tt.dtype.Size(); got != tt.want {
			t.Errorf("%v.Size() = %d, want %d", tt.dtype, got, tt.want)
		}
	}
}
