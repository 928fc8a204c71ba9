package render

import "github.com/matzehuels/degreetree/pkg/tree"

// Colors are the fill, stroke and label colors for one status.
type Colors struct {
	Fill   string
	Stroke string
	Text   string
}

// Shared colors.
const (
	FocusColor      = "#ffffff"
	LabelHaloColor  = "#09090b"
	LinkLocked      = "#3f3f46"
	LinkUnlocked    = "#10b981"
	BackgroundColor = "#18181b"
)

var palette = map[tree.Status]Colors{
	tree.StatusCompleted:  {Fill: "#10b981", Stroke: "#059669", Text: "#ecfdf5"},
	tree.StatusInProgress: {Fill: "#f59e0b", Stroke: "#d97706", Text: "#fffbeb"},
	tree.StatusPlanned:    {Fill: "#3f3f46", Stroke: "#27272a", Text: "#f4f4f5"},
}

// StatusColors returns the colors for s. Unknown statuses use the planned
// colors.
func StatusColors(s tree.Status) Colors {
	return palette[s.OrPlanned()]
}

// LinkColor returns the stroke color and width of the link into a child
// with status s. Links into completed nodes are highlighted.
func LinkColor(s tree.Status) (color string, width float64) {
	if s == tree.StatusCompleted {
		return LinkUnlocked, 2.5
	}
	return LinkLocked, 1.5
}
