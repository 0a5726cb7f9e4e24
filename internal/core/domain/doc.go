// Package domain defines the core business entities for Passline.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Record: A persisted username and obfuscated password
//   - Encode/Decode: The reversible byte-wise password obfuscation
//   - ValidatePassword: The password composition policy
//   - AppSettings: Store, account and session configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
