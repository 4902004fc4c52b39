// Package cli provides the interactive streamstock terminal client.
//
// One App serves one area (customer, supplier or admin) chosen at start-up.
// It resumes a stored session when the token is still usable, watches the
// area's logout topic so an ended session resets the prompt, and runs a REPL
// whose command set depends on the area and on whether a user is logged in.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartLogoutWatcher, and runREPL for details.
package cli
