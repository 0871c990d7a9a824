// Package ui contains the Fyne desktop interface of the editor. It wires
// menus, the sound list and the playback bar to the editor and playback
// services. All UI strings are localized via Localization.
package ui
