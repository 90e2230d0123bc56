package ld

import "sort"

// Container is the bitset form of a term's @container mapping.
// JSON-LD 1.1 allows combining @set with any one of the other
// flags (e.g. ["@graph", "@set"]), which is why this is a bitset rather than
// a closed enum.
type Container uint8

const (
	ContainerList Container = 1 << iota
	ContainerSet
	ContainerGraph
	ContainerIndex
	ContainerID
	ContainerType
	ContainerLanguage
)

// ContainerNone is the zero value: no @container mapping.
const ContainerNone Container = 0

var containerNames = []struct {
	flag Container
	name string
}{
	{ContainerGraph, "@graph"},
	{ContainerID, "@id"},
	{ContainerIndex, "@index"},
	{ContainerLanguage, "@language"},
	{ContainerList, "@list"},
	{ContainerSet, "@set"},
	{ContainerType, "@type"},
}

// Has reports whether flag is set in c.
func (c Container) Has(flag Container) bool { return c&flag != 0 }

// Add returns c with flag set.
func (c Container) Add(flag Container) Container { return c | flag }

// Keywords returns the literal @container keyword strings c is made of, in
// registered keyword order.
func (c Container) Keywords() []string {
	var out []string
	for _, entry := range containerNames {
		if c.Has(entry.flag) {
			out = append(out, entry.name)
		}
	}
	return out
}

// ContainerFromKeywords builds a Container from the @container keywords as
// they appear in a context (a single string or an array of strings).
func ContainerFromKeywords(keywords ...string) Container {
	var c Container
	for _, kw := range keywords {
		for _, entry := range containerNames {
			if entry.name == kw {
				c = c.Add(entry.flag)
			}
		}
	}
	return c
}

// String renders c as its sorted, space-joined @container keywords, for
// diagnostics.
func (c Container) String() string {
	kws := c.Keywords()
	sort.Strings(kws)
	out := ""
	for i, kw := range kws {
		if i > 0 {
			out += " "
		}
		out += kw
	}
	return out
}
