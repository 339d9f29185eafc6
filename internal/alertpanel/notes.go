package alertpanel

import "github.com/valyala/fastjson"

// NotesKind tells how the notes column of an alert was interpreted.
type NotesKind int

const (
	// NotesEmpty means the column was missing or empty.
	NotesEmpty NotesKind = iota
	// NotesStructured means the notes parsed as JSON. HasSummary tells whether
	// a summary member was found.
	NotesStructured
	// NotesRaw means the notes are free text.
	NotesRaw
)

func (k NotesKind) String() string {
	switch k {
	case NotesStructured:
		return "structured"
	case NotesRaw:
		return "raw"
	default:
		return "empty"
	}
}

// Notes is the outcome of ParseNotes.
type Notes struct {
	Kind       NotesKind
	Summary    string
	HasSummary bool
	Text       string
}

// ParseNotes attempts to read notes as JSON and probes it for a "summary"
// member. A JSON null document is treated like text that failed to parse,
// and a null summary like a missing one.
func ParseNotes(notes string) Notes {
	if notes == "" {
		return Notes{Kind: NotesEmpty}
	}

	var p fastjson.Parser
	v, err := p.Parse(notes)
	if err != nil || v.Type() == fastjson.TypeNull {
		return Notes{Kind: NotesRaw, Text: notes}
	}

	n := Notes{Kind: NotesStructured, Text: notes}
	summary := v.Get("summary")
	if summary == nil || summary.Type() == fastjson.TypeNull {
		return n
	}
	n.HasSummary = true
	if summary.Type() == fastjson.TypeString {
		n.Summary = string(summary.GetStringBytes())
	} else {
		n.Summary = summary.String()
	}
	return n
}

// DisplayName picks the alert name: the summary of structured notes, the raw
// notes text when they are not JSON, and metricName otherwise.
func (n Notes) DisplayName(metricName string) string {
	switch n.Kind {
	case NotesStructured:
		if n.HasSummary {
			return n.Summary
		}
		return metricName
	case NotesRaw:
		return n.Text
	default:
		return metricName
	}
}
