//go:build linux
// +build linux

// File: arena/alloc_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux block allocation via anonymous mmap: page-aligned, zero-filled
// memory outside the Go heap, returned wholesale on Close.

package arena

import "golang.org/x/sys/unix"

func allocBlock(size int) ([]byte, func([]byte) error) {
	block, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		// mmap can fail under memory pressure or rlimits; fall back
		// to a heap block with the same zero-init guarantee.
		return make([]byte, size), nil
	}
	return block, unix.Munmap
}
