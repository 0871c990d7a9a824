// Package codec decodes common audio formats to 16-bit PCM and writes WAV.
// It covers the formats a user can bring in (WAV, MP3, Ogg Vorbis, FLAC);
// container formats are handled by external tools.
package codec
