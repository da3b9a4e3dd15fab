// Package mcpserver exposes the catalog service over the Model Context Protocol.
//
// Entries are published as resources under prompt://arsiv/<id> and the
// mutation and full-listing operations as tools. Every request goes through
// core.Service, which reloads the catalog, so the server keeps no state of
// its own between requests.
package mcpserver
