// Package vdom provides the virtual tree and the reconciler that patches a
// live dom tree to match it.
//
// # Trees
//
// A Tree is built once per render pass and is immutable afterwards. Nodes,
// attributes, event sinks and node captures live in flat per-tree slices and
// refer to each other by index, so a tree is a handful of allocations no
// matter how many nodes it holds.
//
//	t := vdom.New()
//	t.Element("button", func(b *vdom.Builder) {
//	    b.Class("primary")
//	    vdom.OnClick(b, sched.NewListener(func(dom.Event) { ... }))
//	    b.Text("Increment")
//	})
//
// # Patching
//
// Patch walks the previous and the next tree in lockstep against the live
// children of a container. Children are matched by position only: nodes are
// patched pairwise up to the shorter list, surplus live children are removed
// from the tail and surplus new children are appended. An element is patched
// in place only when both its tag and its customization name match;
// anything else is replaced with a freshly built node.
//
// Every event sink in the next tree is spawned against its live element and
// every node capture is filled. The previous tree is released afterwards,
// which aborts the sink tasks it had spawned.
package vdom
