// Package optim searches a grid of pole locations for the design that
// minimises a simulation metric.
package optim
