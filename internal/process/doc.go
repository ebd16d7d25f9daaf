// Package process terminates browser process trees left behind by the
// renderer. Errors are reported but callers treat cleanup as best effort.
package process
