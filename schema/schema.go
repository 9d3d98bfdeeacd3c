// Package schema has the histogram containers, tags, naming conventions and
// result models shared by every part of rateplot.
package schema
