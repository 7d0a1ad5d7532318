// Package imaging turns photo files into bounded-size JPEG data URLs and
// sniffs the declared type of files queued for upload.
package imaging
