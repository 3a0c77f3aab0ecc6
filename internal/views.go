package internal

// View identifies one of the top-level screens. The set is closed;
// names arriving from persisted state are validated and
// unknown ones leave the current view unchanged.
type View int

const (
	ViewDashboard View = iota
	ViewChat
	ViewFiles
	ViewSettings
	ViewControls
)

var viewNames = map[View]string{
	ViewDashboard: "dashboard",
	ViewChat:      "chat",
	ViewFiles:     "files",
	ViewSettings:  "settings",
	ViewControls:  "controls",
}

var viewsByName = map[string]View{
	"dashboard": ViewDashboard,
	"chat":      ViewChat,
	"files":     ViewFiles,
	"settings":  ViewSettings,
	"controls":  ViewControls,
}

func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return "dashboard"
}

// ParseView maps a persisted view name back to a View. ok is false
// for unknown names, which callers treat as a no-op.
func ParseView(name string) (View, bool) {
	v, ok := viewsByName[name]
	return v, ok
}

// Views lists all screens in display order, for tab bars.
func Views() []View {
	return []View{ViewDashboard, ViewChat, ViewFiles, ViewSettings, ViewControls}
}

// RefreshOnEnter reports whether switching to the view should reload
// its backing data (files list for the file manager, stats for the
// dashboard).
func (v View) RefreshOnEnter() bool {
	return v == ViewFiles || v == ViewDashboard
}
