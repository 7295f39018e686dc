//go:build !linux
// +build !linux

// File: arena/alloc_stub.go
// Author: momentics <momentics@gmail.com>
//
// Heap-backed block allocation for platforms without the mmap path.

package arena

func allocBlock(size int) ([]byte, func([]byte) error) {
	return make([]byte, size), nil
}
