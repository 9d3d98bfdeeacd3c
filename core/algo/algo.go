// Package algo has the numeric stages of the rate pipeline: subtraction,
// division, composite merging and systematic differencing.
package algo
