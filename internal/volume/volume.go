// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package volume holds the naming helpers shared by the renamer and the PDF
// bundler: extracting a two-digit volume label from a path and splitting a
// file name into stem and suffix.
package volume

import (
	"fmt"
	"regexp"
	"strings"
)

// labelPattern matches the first run of two decimal digits anywhere in a
// path, including digits that belong to parent directory names. Any Unicode
// decimal digit counts, so full-width "１２" is a label and is kept verbatim.
var labelPattern = regexp.MustCompile(`\p{Nd}{2}`)

// Label is the result of scanning a path for a two-digit volume number.
// The zero value means no label was found.
type Label struct {
	value string
}

// Found reports whether the scanned path contained a two-digit run.
func (l Label) Found() bool { return l.value != "" }

// String returns the two digits verbatim, or "" when nothing was found.
func (l Label) String() string { return l.value }

// FirstLabel scans the whole path string and returns the first two-digit
// substring it contains. "scan123" yields "12"; "a1b2" yields nothing.
func FirstLabel(path string) Label {
	return Label{value: labelPattern.FindString(path)}
}

// Counter formats a sequential volume number zero-padded to two digits.
// Numbers of three or more digits are printed in full.
func Counter(n int) string {
	return fmt.Sprintf("%02d", n)
}

// Suffix returns the final extension of a file name including its dot.
// A leading dot alone does not start a suffix (".bashrc" has none) and a
// trailing dot yields no suffix ("notes." has none).
func Suffix(name string) string {
	i := strings.LastIndex(name, ".")
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

// FileName builds "<base> vol<label><suffix>".
func FileName(base, label, suffix string) string {
	return base + " vol" + label + suffix
}
