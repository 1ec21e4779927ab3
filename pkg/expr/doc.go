// Package expr implements the combinatorial core of crazyseq: the delimiter
// codec that converts between a flat expression and its operand and
// delimiter sequences, the concatenation compressor that expands optional
// digit merges, the parenthesization enumerator, and a structural evaluator
// for the expression trees the enumerator produces. Parse reads a rendered
// expression back into a tree.
//
// Nothing in this package performs I/O.
package expr
