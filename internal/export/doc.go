// Package export renders designs and simulated responses to image files
// (gonum/plot) and JSON.
package export
