package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/broomtools/broom/pkg/models"
)

const previewLimit = 5

// Render formats a plan for user confirmation. It is a pure function
// of the plan and mode: the plan is read through its copying
// accessors and never mutated, including the _standalone sentinel,
// which is reported as a count after the body rather than popped.
func Render(p *models.Plan, mode models.Mode) string {
	var b strings.Builder
	b.WriteString("\n✨ Here is the proposed organization plan:\n")
	b.WriteString(strings.Repeat("─", 40) + "\n")

	categories := p.Categories()
	sort.Strings(categories)

	if mode == models.ModeFolders {
		for _, category := range categories {
			if category == models.StandaloneCategory {
				continue
			}
			fmt.Fprintf(&b, "📁 Create parent folder: '%s'\n", category)
			members := p.Members(category)
			sort.Strings(members)
			for _, member := range members {
				fmt.Fprintf(&b, "    └── Move folder '%s' into it\n", member)
			}
		}
		if standalone := p.Members(models.StandaloneCategory); len(standalone) > 0 {
			fmt.Fprintf(&b, "\n👉 %d folders will be left as they are.\n", len(standalone))
		}
	} else {
		for _, category := range categories {
			fmt.Fprintf(&b, "📁 Create folder: '%s'\n", category)
			members := p.Members(category)
			sort.Strings(members)
			for i, member := range members {
				if i == previewLimit {
					fmt.Fprintf(&b, "    └── and %d more...\n", len(members)-previewLimit)
					break
				}
				fmt.Fprintf(&b, "    └── Move '%s'\n", member)
			}
		}
	}

	b.WriteString(strings.Repeat("─", 40) + "\n")
	return b.String()
}
