package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Flatten returns the leaves of v in depth-first preorder.
//
// The sequence is lazy: composites are projected only when the walk reaches
// them, so a consumer that stops early never pays for the rest of the graph.
// Every range over the sequence starts a fresh walk.
//
// A nil value contributes exactly one nil leaf. If a composite already on the
// active path is entered again, the sequence yields ErrCycleDetected and ends.
// Attribute read failures and exceeded budgets end the sequence the same way.
func Flatten(v any, opts ...Option) iter.Seq2[any, error] {
	cfg := newWalkConfig(opts)
	return func(yield func(any, error) bool) {
		w := &walker{
			cfg:    cfg,
			active: make(map[identity]struct{}),
		}
		w.run(v, yield)
	}
}

// Leaves collects the flattened leaves of v.
// The returned slice is never nil.
func Leaves(v any, opts ...Option) ([]any, error) {
	out := make([]any, 0)
	for leaf, err := range Flatten(v, opts...) {
		if err != nil {
			return nil, err
		}
		out = append(out, leaf)
	}
	return out, nil
}

// frame is an entered composite whose children are still being walked.
type frame struct {
	children childList
	next     int
	id       identity
}

// walker flattens a graph with an explicit stack instead of recursion.
type walker struct {
	cfg    walkConfig
	stack  []frame
	active map[identity]struct{}
	leaves int
}

func (w *walker) run(root any, yield func(any, error) bool) {
	if !w.enter(root, yield) {
		return
	}

	for len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]
		if top.next >= top.children.size() {
			w.pop()
			continue
		}

		child, err := top.children.at(top.next)
		top.next++
		if err != nil {
			yield(nil, err)
			return
		}
		if !w.enter(child, yield) {
			return
		}
	}
}

// enter emits v if it is a leaf or pushes it onto the stack if it is a composite.
// It returns false once the walk must stop.
func (w *walker) enter(v any, yield func(any, error) bool) bool {
	e := expand(v)
	if e.leaf {
		w.leaves++
		if w.cfg.maxLeaves > 0 && w.leaves > w.cfg.maxLeaves {
			yield(nil, budgetError("max_leaves", w.cfg.maxLeaves))
			return false
		}
		return yield(e.value, nil)
	}

	if e.id.valid {
		if _, onPath := w.active[e.id]; onPath {
			err := zerr.With(zerr.Wrap(ErrCycleDetected, "composite re-entered"), "type", e.typ.String())
			yield(nil, zerr.With(err, "depth", len(w.stack)))
			return false
		}
	}
	if w.cfg.maxDepth > 0 && len(w.stack)+1 > w.cfg.maxDepth {
		yield(nil, budgetError("max_depth", w.cfg.maxDepth))
		return false
	}

	if e.id.valid {
		w.active[e.id] = struct{}{}
	}
	w.stack = append(w.stack, frame{children: e.children, id: e.id})
	return true
}

func (w *walker) pop() {
	top := w.stack[len(w.stack)-1]
	if top.id.valid {
		delete(w.active, top.id)
	}
	w.stack = w.stack[:len(w.stack)-1]
}

func budgetError(limit string, limitValue int) error {
	err := zerr.With(zerr.Wrap(ErrBudgetExceeded, "traversal stopped"), "limit", limit)
	return zerr.With(err, "max", limitValue)
}
