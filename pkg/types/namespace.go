package types

// Namespace sentinels. Inside the API the default namespace is the empty
// string; inside a Namespaces set it is spelled DefaultNamespaceString.
const (
	DefaultNamespaceString = "default"
	AllNamespacesString    = "*"
)

// NamespaceIDToString renders a namespace id for storage in a Namespaces set.
func NamespaceIDToString(namespace string) string {
	if namespace == "" {
		return DefaultNamespaceString
	}
	return namespace
}

// NamespaceStringToID is the inverse of NamespaceIDToString.
func NamespaceStringToID(namespace string) string {
	if namespace == DefaultNamespaceString {
		return ""
	}
	return namespace
}

// UnionStrings returns existing followed by the members of add not already
// present. Duplicates in either input collapse.
func UnionStrings(existing, add []string) []string {
	seen := make(map[string]bool, len(existing)+len(add))
	out := make([]string, 0, len(existing)+len(add))
	for _, s := range existing {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range add {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// DifferenceStrings returns the members of existing not in remove, in their
// original order and without duplicates.
func DifferenceStrings(existing, remove []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, s := range remove {
		drop[s] = true
	}
	seen := make(map[string]bool, len(existing))
	out := make([]string, 0, len(existing))
	for _, s := range existing {
		if drop[s] || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// ContainsString reports whether set holds s.
func ContainsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// Intersects reports whether a and b share at least one member.
func Intersects(a, b []string) bool {
	for _, s := range a {
		if ContainsString(b, s) {
			return true
		}
	}
	return false
}
