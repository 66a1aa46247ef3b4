// Package ir provides the canonical encoding and structural keys shared by
// every sparqb node.
//
// This package contains value types and hashing only. All other internal
// packages import ir; ir imports nothing internal. This keeps the key
// contract in one foundational layer with no circular dependencies.
//
// Key design constraints:
//   - NO float types (use IRInt or the textual form of a number)
//   - Object keys are emitted in RFC 8785 order (UTF-16 code units)
//   - Strings are NFC normalized before they are hashed
//   - Keys are domain separated so an expression can never collide with a
//     statement or query that happens to encode the same document
package ir
