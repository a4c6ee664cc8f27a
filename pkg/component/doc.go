// Package component ties render loops, attribute notifications and event
// sink rebinding to the reconciler.
//
// A Definition names a custom element and supplies an InitFunc. Once a
// Registry is bound to a document, every connected element matching a
// definition becomes an Instance: its InitFunc runs, and a render task
// commits each tree of the returned stream with vdom.Patch, fires the tree's
// OnCommitted callback and keeps the tree as the base of the next patch.
//
// Disconnecting aborts the render task, cancels the sink tasks of the last
// committed tree and ends the AttributesChanged stream. Connecting again
// starts a fresh render stream that is patched against the existing live
// children.
//
// ViewModel is the usual source of render streams: Updater.Update mutates
// the model and wakes the render task, with updates between two renders
// coalescing into one.
package component
