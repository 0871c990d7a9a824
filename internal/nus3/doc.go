// Package nus3 reads and writes nus3audio containers: the audio bank format
// that bundles named IDSP, LOPUS or opaque binary payloads into one file.
// Payloads are never decoded here; see the convert package for that.
package nus3
