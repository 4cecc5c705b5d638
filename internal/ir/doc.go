// Package ir provides the generic intermediate representation shared by the
// textual syntax, the op registry and the linalg dialect.
//
// This package contains data structures only. All other internal packages
// import ir; ir imports nothing internal. This keeps IR the foundational layer
// with no circular dependencies.
//
// Key design constraints:
//   - Type and Attribute are sealed sum types; consumers switch on them
//     exhaustively instead of asking "is-a" questions
//   - An Operation is assembled once from an OperationState and is not
//     mutated by this package afterwards
//   - Content hashes cover operand types, attributes and result types, never
//     SSA value names
//   - Nothing here is safe for concurrent mutation; a pass owns the
//     operations it touches
package ir
