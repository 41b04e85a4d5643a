// Package graft is the Composition Root for the Graft library.
//
// It connects the core export/import engine (Domain Layer) with the
// infrastructure adapters (Persistence Layer) using the Hexagonal
// Architecture pattern.
//
// Philosophy:
//
// Graft treats a hierarchical topic graph as a mergeable database. A graph
// can be exported into a self-contained interchange snapshot, carried
// anywhere, and imported into another graph under an explicit conflict
// strategy. While the default snapshot store uses the File System, Graft's
// core is agnostic, allowing for other stores via core.SnapshotStore.
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from storage details.
//   - **Conflict Strategies**: Add, Merge, Overwrite and Replace semantics per import.
//   - **Provenance Stamps**: Edit timestamps and authorship survive (or don't) by policy.
//   - **Scope Filtering**: Exports stay within a subtree; external pointers are pruned.
//   - **Legacy Translation**: Numeric pointer attributes become portable references.
//   - **Reactive Stores**: Watch a snapshot directory and react to changes.
//
// Usage:
//
//	// Initialize service with functional options
//	svc, err := graft.New("./graph.yaml",
//		graft.WithStoreDir("./snapshots"),
//		graft.WithLogger(logger),
//	)
//
//	// Export a subtree and save it as a snapshot
//	err = svc.ExportToStore(ctx, "Root:Projects", "projects.json", graft.ExportOptions{
//		IncludeChildren: true,
//	})
package graft
