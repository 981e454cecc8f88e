package vkboot

// RequireNames checks that every required name has an exact, case-sensitive
// match in available. The error names the first missing entry in required
// order.
func RequireNames(kind string, available, required []string) error {
	have := make(map[string]struct{}, len(available))
	for _, a := range available {
		have[trimNull(a)] = struct{}{}
	}
	for _, r := range required {
		if _, ok := have[trimNull(r)]; !ok {
			return environment("required %s %q is not available", kind, trimNull(r))
		}
	}
	return nil
}

// mergeNames appends the names of extra not already in base.
func mergeNames(base []string, extra ...string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, n := range list {
			n = trimNull(n)
			if _, ok := seen[n]; ok || n == "" {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}

func trimNull(s string) string {
	for len(s) > 0 && s[len(s)-1] == endChar {
		s = s[:len(s)-1]
	}
	return s
}
