// Package model defines the editor's domain data: sounds, the bank that
// holds them, loop points and status enums. Structures are designed for
// direct binding in the UI and explicit state transitions.
package model
