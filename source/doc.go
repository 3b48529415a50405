// Package source provides cvdnn.Source implementations for model weights and
// configuration that do not start out as an in memory buffer: memory mapped
// files and zstd or lz4 compressed streams.
//
// Object store sources live in the miniosrc and s3src sub packages.
package source
