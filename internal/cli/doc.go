// Package cli provides the interactive diary command-line client.
//
// It drives a DiaryService from a simple REPL: write, list, show, edit and
// delete entries, attach images and an audio recording from files, and
// build or open share links.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// input ends. See runREPL for the command table.
package cli
