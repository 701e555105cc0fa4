package format

import "strings"

// Request is one requested (kind, definition) pair.
type Request struct {
	Kind       Kind
	Definition string
}

// String renders the request as it is shown to users, e.g. "videoonly 720p".
func (r Request) String() string {
	return r.Kind.String() + " " + r.Definition
}

// Skip is a set of tokens that did not produce a download.
type Skip struct {
	Tokens []string
}

// String joins the skipped tokens.
func (s Skip) String() string {
	return strings.Join(s.Tokens, " ")
}

// GroupAndValidate scans tokens left to right, pairing each kind token with
// a following definition. Every token ends up in exactly one request or skip.
//
//   - kind + definition: one request with both.
//   - kind followed by a kind or the end of input: the kind at "max".
//   - kind followed by anything else: a skip holding both tokens.
//   - definition alone: a video+audio request at that definition.
//   - anything else: a skip holding that token.
func GroupAndValidate(tokens []string) ([]Request, []Skip) {
	var (
		requests []Request
		skips    []Skip
	)

	for i := 0; i < len(tokens); i++ {
		current := strings.ToLower(tokens[i])

		hasNext := i+1 < len(tokens)
		next := ""
		if hasNext {
			next = strings.ToLower(tokens[i+1])
		}

		kind, isKind := ParseKind(current)
		_, nextIsKind := ParseKind(next)

		switch {
		case isKind && hasNext && IsDefinition(next):
			requests = append(requests, Request{Kind: kind, Definition: next})
			i++

		case isKind && (!hasNext || nextIsKind):
			requests = append(requests, Request{Kind: kind, Definition: Max})

		case isKind:
			skips = append(skips, Skip{Tokens: []string{current, next}})
			i++

		case IsDefinition(current):
			requests = append(requests, Request{Kind: VideoAudio, Definition: current})

		default:
			skips = append(skips, Skip{Tokens: []string{current}})
		}
	}
	return requests, skips
}
