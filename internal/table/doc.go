// Package table implements the device explorer's filter engine.
//
// A row is visible when it matches the search set (OR over one contains
// predicate per column visible when the text was entered) and every cell
// filter (AND over equals predicates). Predicates on a missing field never
// match. Visible rows are then sorted and paged. Column visibility is a
// separate projection and never changes which rows are visible.
package table
