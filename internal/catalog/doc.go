// Package catalog provides durable storage for compiled migration artifacts.
//
// Artifacts are content-addressed by their canonical-JSON hash, so storing
// the same migration twice is a no-op. The backing store is SQLite in WAL
// mode; each compiler invocation is tagged with a uuid run id so artifacts
// can be traced back to the run that produced them.
package catalog
