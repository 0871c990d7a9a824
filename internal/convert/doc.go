// Package convert runs the external audio tools. VGAudioCli encodes and
// decodes IDSP/LOPUS (through mono, dotnet or wine where needed);
// vgmstream decodes faster and reports loop metadata.
package convert
