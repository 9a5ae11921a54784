// Package argv provides editing of process argument vectors.
//
// Flags appear in two shapes: "--flag value" (two adjacent elements) and
// "--flag=value" (one element). All lookups recognize both shapes and only
// consider the first matching occurrence; a missing flag is a normal outcome
// reported via the ok result, never an error.
package argv

import "strings"

// Span marks the half-open index range [Start, End) that a flag and its
// value occupy inside a List.
type Span struct {
	Start int
	End   int
}

// Len returns the number of elements covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// List is an ordered process argument vector.
type List []string

// Clone returns an independent copy of the list.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Find returns the index of the first element equal to flag, or -1.
func (l List) Find(flag string) int {
	for i, arg := range l {
		if arg == flag {
			return i
		}
	}
	return -1
}

// Lookup locates the first occurrence of flag and returns its value together
// with the span it occupies. Both "--flag value" and "--flag=value" are
// recognized. The scan stops at the first bare occurrence of flag even when
// no value follows it, matching compiler argument grammars where a flag name
// and its value are never separated by another occurrence of the same flag.
func (l List) Lookup(flag string) (value string, span Span, ok bool) {
	for i, arg := range l {
		if arg == flag {
			if i+1 < len(l) {
				return l[i+1], Span{Start: i, End: i + 2}, true
			}
			return "", Span{}, false
		}
		if strings.HasPrefix(arg, flag) && len(arg) > len(flag) && arg[len(flag)] == '=' {
			return arg[len(flag)+1:], Span{Start: i, End: i + 1}, true
		}
	}
	return "", Span{}, false
}

// Splice replaces the elements covered by span with repl, preserving the
// relative order of untouched elements. An empty repl removes the range.
func (l List) Splice(span Span, repl ...string) List {
	out := make(List, 0, len(l)-span.Len()+len(repl))
	out = append(out, l[:span.Start]...)
	out = append(out, repl...)
	out = append(out, l[span.End:]...)
	return out
}

// Append adds "--flag value" as two trailing elements.
func (l List) Append(flag, value string) List {
	return append(l.Clone(), flag, value)
}

// AppendEquals adds a single trailing "--flag=value" element.
func (l List) AppendEquals(flag, value string) List {
	return append(l.Clone(), flag+"="+value)
}
