// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package bytecode

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mdhenderson/xpath/internal/atomic"
	"github.com/mdhenderson/xpath/internal/ir"
	"github.com/mdhenderson/xpath/internal/names"
	"github.com/mdhenderson/xpath/internal/xpast"
)

// Chunk is one compiled body — the program's top level, or one lowered
// inline function.
type Chunk struct {
	Name       names.Name // zero value for the program's top-level chunk
	Insns      []Inst
	NumLocals  int
	ParamSlots []int
	Captures   []ir.Capture
}

// Program is the whole compiled unit handed to internal/vm: the entry
// chunk, every lowered function's chunk (indexed exactly as ir.Lower's
// function table was), and the pools instructions index into.
type Program struct {
	Main      Chunk
	Functions []Chunk
	Consts    []atomic.Value
	Names     []names.Name
	Tests     []xpast.NodeTest
	SeqTypes  []xpast.SequenceType
	SingleTypes []xpast.SingleType
}

// Explain renders a short human-readable summary of a compiled program —
// instruction/constant-pool sizes via go-humanize (SPEC_FULL.md §2). No
// caller in this repository uses it yet.
func (p *Program) Explain() string {
	var b strings.Builder
	fmt.Fprintf(&b, "main: %s instructions, %s locals\n",
		humanize.Comma(int64(len(p.Main.Insns))), humanize.Comma(int64(p.Main.NumLocals)))
	fmt.Fprintf(&b, "functions: %s\n", humanize.Comma(int64(len(p.Functions))))
	for i, fn := range p.Functions {
		fmt.Fprintf(&b, "  [%d] %s instructions, %s locals, %d captures\n",
			i, humanize.Comma(int64(len(fn.Insns))), humanize.Comma(int64(fn.NumLocals)), len(fn.Captures))
	}
	fmt.Fprintf(&b, "constants: %s, names: %s, node tests: %s\n",
		humanize.Comma(int64(len(p.Consts))), humanize.Comma(int64(len(p.Names))), humanize.Comma(int64(len(p.Tests))))
	return b.String()
}
