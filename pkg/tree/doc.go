// Package tree enumerates filesystem entries under a root directory and maps
// paths between roots.
//
// # Walking
//
// [Walk] returns every entry below a root, depth first, parents before their
// children, siblings in directory-listing order. A [Predicate] decides which
// entries are reported; it never decides which subtrees are visited, so a
// rejected directory is still descended into:
//
//	entries, err := tree.Walk(root, tree.FilesOnly, tree.HasSuffix(".json", ".mcmeta"))
//
// The whole entry list is built in memory before it is returned. Memory grows
// linearly with the number of entries in the tree.
//
// # Path Mapping
//
// [Map] moves a path from one root to another by stripping the source root
// and joining the remainder onto the destination root. Directory nesting is
// preserved exactly, so the mapping is injective.
package tree
