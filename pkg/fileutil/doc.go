// Package fileutil reads input files under a size limit and writes output
// files atomically.
package fileutil
