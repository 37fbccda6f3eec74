//go:build !windows && !linux

package input

import "errors"

// unavailableSampler is the fallback where no OS input query exists. The
// monitor keeps polling and dropping samples; automation then simply never
// cancels on OS-level activity, only on events tripped by our own windows.
type unavailableSampler struct{}

func newPlatformSampler() Sampler {
	return &unavailableSampler{}
}

func (unavailableSampler) Sample() (Sample, error) {
	return Sample{}, errors.New("input sampling not supported on this platform")
}

func (unavailableSampler) Available() (bool, string) {
	return false, "input sampling not supported on this platform"
}
