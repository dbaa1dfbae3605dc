// Package store persists the workshop record model: children, workshops,
// sessions, observations, recordings, and tagged moments.
//
// Two backends implement the same Store contract. MemoryStore keeps records in
// process maps and is the default; SQLiteStore writes to a single database
// file under the data directory for installations that need durability. Both
// assign ids from 1 upward per entity kind and never reuse them.
package store
