// Package arsiv is the Composition Root for the arsiv prompt catalog.
//
// It connects the catalog service (pkg/core) with its sources and stores
// (local JSON artifact, optional remote endpoint) and exposes the two halves
// of the system:
//
//   - Compile turns a tree of Markdown documents with YAML front matter into
//     the prompts.json artifact.
//   - New returns a service answering list, read, add and list-full against
//     that artifact, reloading it on every call.
//
// Usage:
//
//	report, err := arsiv.Compile(ctx, "./prompts", "prompts.json")
//
//	svc, err := arsiv.Open(".", arsiv.WithLogger(logger))
//	entry, err := svc.Read(ctx, "code-review")
//
// The same service is served over MCP by NewMCPServer.
package arsiv
