// Package labels provides the LaTeX parameter labels used as plot axis
// names and results table keys.
package labels

import "strconv"

// Norm labels for the radial coordinate |theta|. NormBold needs amsmath in
// the matplotlib/LaTeX preamble; Norm is the fallback spelling.
const (
	NormBold = `$|\boldsymbol{\theta}|$`
	Norm     = `$|\theta|$`
)

// Provider returns ndim parameter labels. Label i must name dimension i:
// callers index into the result positionally.
type Provider func(ndim int) []string

// Param returns the label for the zero-based parameter index ind.
func Param(ind int) string {
	return `$\theta_{\hat{` + strconv.Itoa(ind+1) + `}}$`
}

// ParamsGivenDim returns the labels for parameters 1..ndim.
// Returns an empty slice for ndim <= 0.
func ParamsGivenDim(ndim int) []string {
	if ndim <= 0 {
		return []string{}
	}
	out := make([]string, ndim)
	for i := range out {
		out[i] = Param(i)
	}
	return out
}
