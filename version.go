// Package crazyseq enumerates the arithmetic expressions that can be built from
// an ordered run of digits.
package crazyseq

// Version is the release version reported by the crazyseq CLI.
const Version = "0.1.0"
