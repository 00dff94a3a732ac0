package binding

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/padmux/padmux/internal/action"
	"github.com/padmux/padmux/internal/gamepad"
	"github.com/padmux/padmux/internal/gesture"
	"github.com/padmux/padmux/internal/mode"
)

// entry keeps registration order for deterministic tie-breaking.
type entry struct {
	Binding
	seq int
}

// Registry holds all bindings, indexed by mode and canonical pattern.
// It is populated at startup and read by the engine loop; it is not
// safe for concurrent mutation.
type Registry struct {
	byMode map[mode.Mode]map[string][]entry
	next   int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byMode: make(map[mode.Mode]map[string][]entry)}
}

// Register adds a binding, failing fast on malformed patterns or
// actions. Duplicate patterns are allowed; priority and registration
// order decide between them at resolve time.
func (r *Registry) Register(b Binding) error {
	if err := b.validate(); err != nil {
		return err
	}
	if b.Priority == 0 {
		b.Priority = DefaultPriority
	}
	table := r.byMode[b.Mode]
	if table == nil {
		table = make(map[string][]entry)
		r.byMode[b.Mode] = table
	}
	k := b.Pattern.key()
	table[k] = append(table[k], entry{Binding: b, seq: r.next})
	r.next++
	return nil
}

// MustRegister registers or panics. Default tables use it; a broken
// default is a programming error.
func (r *Registry) MustRegister(b Binding) {
	if err := r.Register(b); err != nil {
		panic(fmt.Sprintf("register %s: %v", b.Pattern, err))
	}
}

// Resolve finds the action for a gesture in the given mode and
// context. Unbound gestures resolve to NoOp.
func (r *Registry) Resolve(m mode.Mode, ctx string, ev gesture.Event) (action.Action, bool) {
	b, ok := r.ResolveBinding(m, ctx, ev)
	if !ok {
		return action.NoOp(), false
	}
	return b.Action, true
}

// ResolveBinding finds the winning binding for a gesture in the given
// mode and context. Context-scoped bindings win over mode-wide ones;
// within a tier, highest priority wins and registration order breaks
// ties.
func (r *Registry) ResolveBinding(m mode.Mode, ctx string, ev gesture.Event) (Binding, bool) {
	table := r.byMode[m]
	if table == nil {
		return Binding{}, false
	}
	candidates := table[eventKey(ev)]
	if len(candidates) == 0 {
		return Binding{}, false
	}

	if ctx != "" {
		if e, ok := best(candidates, ctx); ok {
			return e.Binding, true
		}
	}
	if e, ok := best(candidates, ""); ok {
		return e.Binding, true
	}
	return Binding{}, false
}

func best(candidates []entry, ctx string) (entry, bool) {
	var found bool
	var win entry
	for _, e := range candidates {
		if e.Context != ctx {
			continue
		}
		if !found || e.Priority > win.Priority ||
			(e.Priority == win.Priority && e.seq < win.seq) {
			win = e
			found = true
		}
	}
	return win, found
}

// Bindings returns every binding for a mode, in registration order.
func (r *Registry) Bindings(m mode.Mode) []Binding {
	var out []entry
	for _, es := range r.byMode[m] {
		out = append(out, es...)
	}
	sortEntries(out)
	bs := make([]Binding, len(out))
	for i, e := range out {
		bs[i] = e.Binding
	}
	return bs
}

func sortEntries(es []entry) {
	for i := 1; i < len(es); i++ {
		for j := i; j > 0 && es[j].seq < es[j-1].seq; j-- {
			es[j], es[j-1] = es[j-1], es[j]
		}
	}
}

// ButtonsDiffer returns the buttons whose bindings do not mean the
// same thing in the two modes: a pattern bound in only one of them, or
// bound in both with different winning actions. The engine cancels
// pending gestures on these buttons when switching modes, so a gesture
// begun under one meaning can never resolve into the other.
func (r *Registry) ButtonsDiffer(a, b mode.Mode) []gamepad.Button {
	keys := make(map[string]bool)
	for k := range r.byMode[a] {
		keys[k] = true
	}
	for k := range r.byMode[b] {
		keys[k] = true
	}

	seen := make(map[gamepad.Button]bool)
	var out []gamepad.Button
	addAll := func(es []entry) {
		for _, e := range es {
			for _, btn := range e.Pattern.Buttons {
				if !seen[btn] {
					seen[btn] = true
					out = append(out, btn)
				}
			}
		}
	}

	for k := range keys {
		ea, eb := r.byMode[a][k], r.byMode[b][k]
		if !sameMeaning(ea, eb) {
			addAll(ea)
			addAll(eb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// sameMeaning reports whether two candidate lists for one pattern key
// resolve identically. Context-scoped entries on either side count as
// differing, since their resolution depends on the foreground
// application at gesture time.
func sameMeaning(a, b []entry) bool {
	for _, es := range [][]entry{a, b} {
		for _, e := range es {
			if e.Context != "" {
				return false
			}
		}
	}
	wa, oka := best(a, "")
	wb, okb := best(b, "")
	if !oka || !okb {
		return oka == okb
	}
	return wa.Repeat == wb.Repeat && reflect.DeepEqual(wa.Action, wb.Action)
}
