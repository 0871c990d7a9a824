// Package platform contains OS integration and external tooling glue:
// filesystem helpers, the scratch cache directory, vgmstream metadata
// parsing, bank file watching and OS reveal.
package platform
