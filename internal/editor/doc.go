// Package editor implements the bank operations behind the UI and CLI:
// opening and saving nus3audio files, encoding sounds on demand through the
// external tools, exporting, replacing and editing sound properties.
// Long operations are serialized; overlapping requests get ErrBusy.
package editor
