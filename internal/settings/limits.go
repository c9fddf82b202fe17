package settings

import (
	"fmt"

	"github.com/banshee-data/nestdiag/internal/labels"
)

// Likelihood names with default limits.
const (
	LikeGaussian    = "Gaussian"
	LikeLogGammaMix = "LogGamma mix"
	// LikeLogGammaMixAlt is an accepted synonym for LikeLogGammaMix.
	LikeLogGammaMixAlt = "LogGammaMix"
)

// Provider is the label source used by DefaultLimitsWith.
type Provider = labels.Provider

// Bounds is a plot axis range [low, high].
type Bounds [2]float64

// Low returns the lower bound.
func (b Bounds) Low() float64 { return b[0] }

// High returns the upper bound.
func (b Bounds) High() float64 { return b[1] }

// Limits maps parameter labels to axis ranges.
type Limits map[string]Bounds

var (
	gaussianBounds    = Bounds{-4, 4}
	gaussianNorm      = Bounds{0, 6}
	logGammaOuter     = Bounds{-20, 20}
	logGammaNorm      = Bounds{10, 20}
	logGammaComponent = Bounds{-7, 3}
)

// KnownLikelihood reports whether DefaultLimits has a table for likeName.
func KnownLikelihood(likeName string) bool {
	switch likeName {
	case LikeGaussian, LikeLogGammaMix, LikeLogGammaMixAlt:
		return true
	}
	return false
}

// DefaultLimits returns plot limits for the likelihoods used in the paper,
// with parameter labels from labels.ParamsGivenDim.
func DefaultLimits(likeName string, ndim int) (Limits, error) {
	return DefaultLimitsWith(labels.ParamsGivenDim, likeName, ndim)
}

// MustDefaultLimits is like DefaultLimits but panics on error.
func MustDefaultLimits(likeName string, ndim int) Limits {
	lims, err := DefaultLimits(likeName, ndim)
	if err != nil {
		panic(err)
	}
	return lims
}

// DefaultLimitsWith is DefaultLimits with a caller-supplied label provider.
// The provider must return exactly ndim distinct labels ordered by
// dimension index.
//
// For LogGamma mix likelihoods the first two parameters are the LogGamma
// mixture components. Of the remaining parameters, zero-based indices up to
// ndim/2+1 are LogGamma distributed and the rest Gaussian; ndim must be even
// when above 2.
func DefaultLimitsWith(provider Provider, likeName string, ndim int) (Limits, error) {
	if !KnownLikelihood(likeName) {
		return nil, fmt.Errorf("%w: likename=%q does not have default limits", ErrPrecondition, likeName)
	}
	if ndim < 1 {
		return nil, fmt.Errorf("%w: ndim must be positive, got %d", ErrPrecondition, ndim)
	}
	dimLabels, err := checkedLabels(provider, ndim)
	if err != nil {
		return nil, err
	}

	lims := make(Limits, len(dimLabels)+2)
	switch likeName {
	case LikeLogGammaMix, LikeLogGammaMixAlt:
		if len(dimLabels) < 2 {
			return nil, fmt.Errorf("%w: %s needs ndim >= 2, got %d", ErrPrecondition, likeName, len(dimLabels))
		}
		if len(dimLabels) > 2 && len(dimLabels)%2 != 0 {
			return nil, fmt.Errorf("%w: %s needs an even ndim, got %d", ErrPrecondition, likeName, len(dimLabels))
		}
		lims[dimLabels[0]] = logGammaOuter
		lims[dimLabels[1]] = logGammaOuter
		lims[labels.NormBold] = logGammaNorm
		boundary := len(dimLabels)/2 + 1
		for i := 2; i < len(dimLabels); i++ {
			if i <= boundary {
				lims[dimLabels[i]] = logGammaComponent
			} else {
				lims[dimLabels[i]] = gaussianBounds
			}
		}
	case LikeGaussian:
		for _, lab := range dimLabels {
			lims[lab] = gaussianBounds
		}
		lims[labels.NormBold] = gaussianNorm
	}
	lims[labels.Norm] = lims[labels.NormBold]
	return lims, nil
}

func checkedLabels(provider Provider, ndim int) ([]string, error) {
	if provider == nil {
		provider = labels.ParamsGivenDim
	}
	dimLabels := provider(ndim)
	if len(dimLabels) != ndim {
		return nil, fmt.Errorf("%w: asked for %d labels, got %d", ErrLabelContract, ndim, len(dimLabels))
	}
	seen := make(map[string]struct{}, len(dimLabels))
	for i, lab := range dimLabels {
		if lab == labels.NormBold || lab == labels.Norm {
			return nil, fmt.Errorf("%w: label %d (%q) collides with a norm label", ErrLabelContract, i, lab)
		}
		if _, dup := seen[lab]; dup {
			return nil, fmt.Errorf("%w: duplicate label %q at index %d", ErrLabelContract, lab, i)
		}
		seen[lab] = struct{}{}
	}
	return dimLabels, nil
}
