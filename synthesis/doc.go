// Package synthesis defines the text-to-speech provider interface and its
// request/response types. Backends write the synthesized audio to a local
// file and report its path.
package synthesis
