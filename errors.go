// This is free and unencumbered software released into the public domain.
//
// Anyone is free to copy, modify, publish, use, compile, sell, or
// distribute this software, either in source code form or as a compiled
// binary, for any purpose, commercial or non-commercial, and by any
// means.
//
// In jurisdictions that recognize copyright laws, the author or authors
// of this software dedicate any and all copyright interest in the
// software to the public domain. We make this dedication for the benefit
// of the public at large and to the detriment of our heirs and
// successors. We intend this dedication to be an overt act of
// relinquishment in perpetuity of all present and future rights to this
// software under copyright law.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
// IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR
// OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
// ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.
//
// For more information, please refer to <https://unlicense.org>

package ndlife

import "errors"

var (
	// ErrInvalidStepSize is returned when a negative (or nil) step size
	// is passed to Simulation.Step. A zero step is a no-op, not an error.
	ErrInvalidStepSize = errors.New("step size must be a non-negative integer")

	// ErrRuleRadiusTooLarge cannot normally be reached, because the
	// step driver expands the tree as far as the rule requires; it is
	// retained as a defensive error.
	ErrRuleRadiusTooLarge = errors.New("rule radius does not fit in the tree")

	// ErrCacheExhausted is returned when the node cache's hard limit
	// is reached during a step. The tree is left unchanged.
	ErrCacheExhausted = errors.New("node cache hard limit reached")

	// ErrInterrupted is returned when the caller-set interrupt flag is
	// observed during a step. The tree is left unchanged.
	ErrInterrupted = errors.New("step interrupted")

	// ErrInvariantViolation indicates an internal bug such as a
	// child-layer mismatch. It is not recoverable.
	ErrInvariantViolation = errors.New("internal invariant violation")
)
