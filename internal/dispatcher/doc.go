// Package dispatcher turns named actions into handler calls.
//
// Names with a dot, such as "fold.toggle", go to the NamespaceHandler
// registered for their prefix. Other names, such as
// "cubic-folds:toggleFold-this", are looked up in the Registry. A
// namespace owner that accepts a name wins over a registry entry.
//
// Dispatch runs the pre-dispatch hooks, which may cancel the action,
// calls the handler, applies the redraw and reveal requests of its result
// to the attached view, then runs the post-dispatch hooks and records
// metrics.
package dispatcher
