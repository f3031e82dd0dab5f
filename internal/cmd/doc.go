// Package cmd provides the command-line interface implementation for ogy.
//
// It uses the Cobra library for command structure; the binary in cmd/ogy
// runs it through Fang for styled help and errors.
//
// The package is organized into the following commands:
//   - root: Main command coordinator and entry point
//   - ls: Parallel directory listing
//   - find: Name search whose matches are looked up in parallel
//   - info: Metadata of a single path
package cmd
