// Package playback plays one decoded sound at a time through the system
// audio device.
package playback
