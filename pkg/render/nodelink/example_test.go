package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/degreetree/pkg/render/nodelink"
	"github.com/matzehuels/degreetree/pkg/tree"
)

func ExampleToDOT() {
	nodes := []tree.Node{
		{ID: "cse121", Label: "CSE 121", Status: tree.StatusCompleted},
		{ID: "cse122", Label: "CSE 122", Parent: "cse121", Status: tree.StatusCompleted},
		{ID: "cse123", Label: "CSE 123", Parent: "cse121"},
	}

	dot := nodelink.ToDOT(nodes, nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "cse121" -> "cse122" [color="#10b981", penwidth=2.5];
	// "cse121" -> "cse123" [color="#3f3f46", penwidth=1.5];
}
