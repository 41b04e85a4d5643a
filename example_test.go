package graft_test

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/adapters/memory"
)

// Exporting a subtree and merging it into another graph.
func Example() {
	src := memory.New("Root", "")
	projects, _ := src.Root().Children().Create("Projects", "")
	alpha, _ := projects.Children().Create("Alpha", "Project")
	status := "active"
	alpha.Attributes().Set("Status", &status, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC))

	svc, _ := graft.New("", graft.WithGraph(src))
	snapshot, _ := svc.Export(context.Background(), "Root:Projects", graft.ExportOptions{
		IncludeChildren: true,
	})

	dst := memory.New("Root", "")
	dst.Root().Children().Create("Projects", "")
	dstSvc, _ := graft.New("", graft.WithGraph(dst))
	_ = dstSvc.Import(context.Background(), "", snapshot, graft.ImportOptions{
		Strategy: graft.StrategyMerge,
	})

	merged, _ := dst.Lookup("Root:Projects:Alpha")
	attr, _ := merged.Attributes().Get("Status")
	fmt.Println(merged.UniqueKey(), *attr.Value)
	// Output: Root:Projects:Alpha active
}
