// Package file provides the text-file implementation of driven.RecordStore.
//
// Records are stored one per line as
//
//	<username>,<obfuscatedPassword>,
//
// Only the first two comma-separated fields are significant. There is no
// escaping, so values containing a comma or a line break cannot be stored.
//
// Updates rewrite the whole file into a temporary file in the same directory
// and atomically replace the original with it; the replace is the only step at
// which the durable state visibly changes.
package file
