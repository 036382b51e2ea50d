package ir

import "github.com/tensorir/tirc/internal/config"

// Value is a definition site: a function, a function/basic-block
// argument, or an instruction (spec.md §3).
type Value interface {
	ValueType() Type
	// ValueName returns the value's textual or anonymous name and
	// whether it has one at all (an unnamed void-typed instruction
	// has no name).
	ValueName() (string, bool)
}

// ElementKey is the closed ElementKey variant of spec.md §3, used by
// extract/insert/elementPointer.
type ElementKey interface {
	isElementKey()
}

type IndexKey struct{ Index int }

func (IndexKey) isElementKey() {}

type NameKey struct{ Name string }

func (NameKey) isElementKey() {}

type ValueKey struct{ Value Use }

func (ValueKey) isElementKey() {}

// ReductionCombinator is the closed combinator variant for scan/reduce.
type ReductionCombinator interface {
	isCombinator()
}

type FunctionCombinator struct{ Value Use }

func (FunctionCombinator) isCombinator() {}

type OpCombinator struct{ Op config.BinaryOp }

func (OpCombinator) isCombinator() {}
