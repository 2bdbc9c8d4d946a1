package coach

// Patch is a partial update of a JSON bag. A key absent from the patch is left
// alone, a nil or "" value clears the key, and any other value replaces it.
type Patch map[string]any

// Apply overlays p onto base and returns the merged map. base is not modified.
func (p Patch) Apply(base map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(p))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range p {
		if clears(v) {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

func clears(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
