package models

// ReportDocument is the fully assembled report, built once per run and
// immutable after rendering.
type ReportDocument struct {
	Title       string
	Topic       string
	GeneratedAt string
	Sections    []Section
	KeyStats    []KeyStat
	Images      []ImageRef
	Charts      []ChartSpec
}

// Section is one labeled block of the report. Container sections carry
// subsections instead of flat content.
type Section struct {
	Title       string
	Content     string
	Class       string
	Subsections []Subsection
}

type Subsection struct {
	Title   string
	Content string
}

// KeyStat is a numeric highlight extracted from the report text, shown as a
// summary card.
type KeyStat struct {
	Title       string
	Value       string
	Description string
}

// ImageRef points at a topic-related image, either from an image API or a
// deterministic placeholder.
type ImageRef struct {
	URL     string
	Alt     string
	Caption string
	Source  string
}

// ChartSpec describes a single Plotly chart: the target element id, the
// rendering call and a short caption.
type ChartSpec struct {
	ID          string
	Title       string
	Type        string // bar, line or pie
	JS          string
	Description string
}

// ReportRun is one archived generation run.
type ReportRun struct {
	ID        int64
	Topic     string
	Backend   string
	HTMLPath  string
	MDPath    string
	CreatedAt string
}
