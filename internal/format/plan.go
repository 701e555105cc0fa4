package format

import "strings"

// Target is one resolved, deduplicated download.
type Target struct {
	Kind       Kind
	Definition string
	// Requested is the definition as the user asked for it, before fallback.
	Requested string
	// Suffix is appended to the filename stem to keep sibling targets apart.
	Suffix string
}

// Label is the short "[kind def]" form used in the UI.
func (t Target) Label() string {
	if t.Kind == VideoAudio {
		return t.Definition
	}
	return t.Kind.String() + " " + t.Definition
}

// Fallback records that an unavailable definition was replaced by a lower one.
type Fallback struct {
	Kind     Kind
	Base     string
	Fallback string
}

// Plan is the outcome of resolving a token list against one catalog.
type Plan struct {
	Targets   []Target
	Skips     []Skip
	Fallbacks []Fallback
}

// AllSkipped reports whether every request was skipped.
func (p Plan) AllSkipped() bool {
	return len(p.Targets) == 0 && len(p.Skips) > 0
}

// Definitions lists the target labels in order.
func (p Plan) Definitions() []string {
	out := make([]string, 0, len(p.Targets))
	for _, t := range p.Targets {
		out = append(out, t.Label())
	}
	return out
}

// NewPlan groups tokens, resolves every request against cat and collapses
// requests that land on the same (kind, definition).
//
// An empty token list yields a single video+audio target at "max".
func NewPlan(tokens []string, cat Catalog) Plan {
	if len(tokens) == 0 {
		return Plan{
			Targets: []Target{{Kind: VideoAudio, Definition: Max, Requested: Max}},
		}
	}

	requests, skips := GroupAndValidate(tokens)
	plan := Plan{Skips: skips}

	perKind := make(map[Kind]int, 3)
	for _, r := range requests {
		perKind[r.Kind]++
	}

	type key struct {
		kind Kind
		def  string
	}
	seenTargets := make(map[key]bool, len(requests))
	seenFallbacks := make(map[Fallback]bool)

	for _, r := range requests {
		def, ok := Resolve(r, cat)
		if !ok {
			plan.Skips = append(plan.Skips, Skip{Tokens: []string{r.Kind.String(), r.Definition}})
			continue
		}

		if def != r.Definition {
			fb := Fallback{Kind: r.Kind, Base: r.Definition, Fallback: def}
			if !seenFallbacks[fb] {
				seenFallbacks[fb] = true
				plan.Fallbacks = append(plan.Fallbacks, fb)
			}
		}

		k := key{kind: r.Kind, def: Canonical(r.Kind, def)}
		if seenTargets[k] {
			continue
		}
		seenTargets[k] = true

		t := Target{Kind: r.Kind, Definition: def, Requested: r.Definition}
		if perKind[r.Kind] > 1 {
			t.Suffix = suffixFor(r.Kind, def)
		}
		plan.Targets = append(plan.Targets, t)
	}
	return plan
}

func suffixFor(k Kind, def string) string {
	var b strings.Builder
	if k != VideoAudio {
		b.WriteString(" [" + k.String() + "]")
	}
	if def != Max {
		b.WriteString(" [" + def + "]")
	}
	return b.String()
}
