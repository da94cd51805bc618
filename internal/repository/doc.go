// Package repository defines the fixture store interface.
//
// A fixture store holds catalogs imported ahead of time (netmap import) so
// hosts can start without parsing fixture files. Stores are read once at
// startup; the engine never writes layout or selection state back.
//
// The sqlite subpackage implements the store on modernc.org/sqlite. Tests
// run against in-memory databases.
package repository
