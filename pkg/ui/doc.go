// Package ui formats command line output: colored status lines and the
// collection summary. Colors are enabled only when stdout is a terminal.
package ui
