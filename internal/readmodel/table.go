package readmodel

// Link is a labelled navigation target. An empty URL means the target
// could not be resolved and the link renders disabled.
type Link struct {
	Label string
	URL   string
	Icon  string
}

// ActionButton is one entry in a row's action cell.
type ActionButton struct {
	Label    string
	Icon     string
	URL      string
	Disabled bool
}

// Cell is one table cell. URL turns the text into a link; Center marks
// numeric columns; Pre requests preformatted rendering; Buttons replaces
// text with an action-button group.
type Cell struct {
	Text    string
	URL     string
	Center  bool
	Pre     bool
	Buttons []ActionButton
}

// Table pairs fixed headers with rows. Every row has exactly one cell per
// header.
type Table struct {
	Headers []string
	Rows    [][]Cell
}

func textCell(text string) Cell      { return Cell{Text: text} }
func linkCell(text, url string) Cell { return Cell{Text: text, URL: url} }
func centerCell(text string) Cell    { return Cell{Text: text, Center: true} }

// actionCell builds the standard View/History button pair. A button whose
// target did not resolve is rendered as a disabled marker, never as a
// dead link.
func actionCell(detailURL, historyURL string) Cell {
	return Cell{
		Center: true,
		Buttons: []ActionButton{
			{Label: "View", Icon: "fa-regular fa-eye", URL: detailURL, Disabled: detailURL == ""},
			{Label: "History", Icon: "fa-solid fa-clock-rotate-left", URL: historyURL, Disabled: historyURL == ""},
		},
	}
}
