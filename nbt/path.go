package nbt

import (
	"strconv"
	"strings"
)

// ChildByName returns the first Compound child named name, scanning in
// encounter order. A linear scan where the first match wins, which also
// resolves duplicate names the same way a Compound permits them: the
// first-inserted entry wins for lookup.
func ChildByName(t Tag, name string) (Tag, bool) {
	if t.Kind != KindCompound {
		return Tag{}, false
	}
	for _, c := range t.Compound {
		if c.Name == name {
			return c, true
		}
	}
	return Tag{}, false
}

// ChildAtPath walks a dot-separated path from root, requiring each
// intermediate tag to be a Compound (looked up by name) or a List (looked up
// by numeric index), and requiring the terminal tag's Kind to equal
// expected. Any missing segment, kind mismatch, or non-container
// intermediate returns ok=false.
func ChildAtPath(root Tag, path string, expected Kind) (Tag, bool) {
	cur := root
	for _, part := range strings.Split(path, ".") {
		switch cur.Kind {
		case KindCompound:
			child, ok := ChildByName(cur, part)
			if !ok {
				return Tag{}, false
			}
			cur = child
		case KindList:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(cur.List) {
				return Tag{}, false
			}
			cur = cur.List[idx]
		default:
			return Tag{}, false
		}
	}
	if cur.Kind != expected {
		return Tag{}, false
	}
	return cur, true
}
