// Package idrange expands compact job identifier specifications into ordered
// sets of integer IDs.
//
// A specification is a comma separated list of tokens. Each token is either a
// single non-negative integer ("7") or an inclusive range ("3-5" or "3..5").
//
//	Expand("5,1-3,1") // [5 1 2 3]
//
// IDs are returned in the order they were first mentioned, ranges expand in
// ascending order and repeated IDs are dropped.
package idrange
