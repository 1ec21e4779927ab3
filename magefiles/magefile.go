//go:build mage

// Package main provides build targets for the crazyseq project using Mage.
//
// Usage:
//
//	mage build            Compile crazyseq binary to bin/
//	mage test:all         Run all tests (unit + integration)
//	mage test:unit        Run only unit tests (exclude integration)
//	mage test:integration Run only integration tests (builds first)
//	mage test:cover       Run unit tests with a coverage profile
//	mage lint             Run golangci-lint
//	mage clean            Remove build artifacts
//	mage install          Install crazyseq to GOPATH/bin
//	mage stats            Print Go LOC and documentation word counts
package main

const (
	binGo      = "go"
	binaryName = "crazyseq"
	binaryDir  = "bin"
	cmdDir     = "./cmd/crazyseq"
)

// Default target when mage runs without arguments.
var Default = Build
