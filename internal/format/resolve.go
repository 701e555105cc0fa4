package format

// Resolve walks the fallback chain of req.Kind starting at req.Definition and
// returns the first definition available in cat. It never moves up the chain.
//
// A definition that is available at the first step is returned as written, so
// an available alias such as "4k" comes back as "4k".
func Resolve(req Request, cat Catalog) (string, bool) {
	if !ValidFor(req.Kind, req.Definition) {
		return "", false
	}

	if cat.Has(req.Kind, req.Definition) {
		return req.Definition, true
	}

	chain := chainOf(req.Kind)
	start := indexOf(chain, Canonical(req.Kind, req.Definition))

	for _, def := range chain[start+1:] {
		if cat.Has(req.Kind, def) {
			return def, true
		}
	}
	return "", false
}
