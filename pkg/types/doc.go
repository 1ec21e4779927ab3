// Package types defines the Store interface for saved enumeration runs, the
// records it holds, and the standard errors store implementations return.
package types
