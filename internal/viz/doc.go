// Package viz renders designs in the terminal.
//
//   - [Report]: lipgloss summary of a design (matrices, gain, poles)
//   - [Plane]: Braille canvas of the complex plane for pole maps
//   - [Tuner]: Bubble Tea model for moving a pole pair interactively
//
// # Tuner key bindings
//
//	←/→   - Move the real part of the pole pair
//	↑/↓   - Move the imaginary part
//	R     - Reset to the configured poles
//	T     - Cycle color themes
//	?     - Toggle full help
//	Q     - Quit
package viz
