// Package migrations registers the schema history. Importing it (the CLI
// and the test helpers do) is enough to make every migration runnable.
package migrations
