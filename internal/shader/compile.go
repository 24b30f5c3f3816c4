// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shader

import (
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/cardfx/internal/cache"
)

type compileResult struct {
	words []uint32
	err   error
}

var compiled = cache.New[Kind, compileResult](0)

// CompileSPIRV compiles a WGSL module to SPIR-V words.
func CompileSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// Compile compiles the program of kind to SPIR-V. The result, including
// a failure, is computed once per process.
func Compile(kind Kind) ([]uint32, error) {
	r := compiled.GetOrCreate(kind, func() compileResult {
		p, ok := Lookup(kind)
		if !ok {
			return compileResult{err: fmt.Errorf("no source for program %s", kind)}
		}
		words, err := CompileSPIRV(p.Source)
		return compileResult{words, err}
	})
	return r.words, r.err
}

// Validate compiles every program and returns the failure per kind.
// A nil map means everything compiled.
func Validate() map[Kind]error {
	var failed map[Kind]error
	for _, k := range Kinds() {
		if _, err := Compile(k); err != nil {
			if failed == nil {
				failed = make(map[Kind]error)
			}
			failed[k] = err
		}
	}
	return failed
}
