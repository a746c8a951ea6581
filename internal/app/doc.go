// Package app wires the download client, the ZIP extractor and the fetcher service together
// and runs a single "download and unpack" pass for the loaded configuration.
package app
