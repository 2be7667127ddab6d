// Package codegen turns symbolic right-hand sides into numeric code: Go
// closures for in-process integration, and Go source for export.
//
// A [Layout] fixes where every leaf lives: states in x, specified inputs
// in u, constants in c, and the time symbol in t.
package codegen
