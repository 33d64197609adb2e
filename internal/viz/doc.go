// Package viz renders cooling curves in the terminal.
//
//   - [Plot]: static asciigraph chart with the ambient reference line
//   - [Explorer]: Bubble Tea model for stepping a cursor along the curve
//   - [Canvas]: Braille-based pixel canvas used by the explorer
//
// # Key Bindings
//
//	←/→ h/l - Move the time cursor
//	Home/End - Jump to the start or end of the horizon
//	+/-     - Double or halve the horizon
//	T       - Cycle color themes
//	Q       - Quit
package viz
