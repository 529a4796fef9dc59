// Package cli implements the simpledi command line: flag parsing, the tree,
// check, get, tags and serve commands, and their styled output.
package cli
