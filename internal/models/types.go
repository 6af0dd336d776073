package models

import "fmt"

// Sentinels substituted when a field's selector chain finds nothing.
const (
	NoTitle         = "No Title"
	UnknownDate     = "Unknown Date"
	ContentNotFound = "Content not found."
)

type Entry struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

type FetchKind int

const (
	FetchOK FetchKind = iota
	FetchHTTPError
	FetchTransportError
)

func (k FetchKind) String() string {
	switch k {
	case FetchOK:
		return "ok"
	case FetchHTTPError:
		return "http_error"
	case FetchTransportError:
		return "transport_error"
	default:
		return fmt.Sprintf("FetchKind(%d)", int(k))
	}
}

// FetchResult is the outcome of one GET. Body is set only for FetchOK,
// StatusCode only for FetchHTTPError (and FetchOK), Message only for
// FetchTransportError.
type FetchResult struct {
	Kind        FetchKind `json:"kind"`
	URL         string    `json:"url"`
	Body        []byte    `json:"-"`
	ContentType string    `json:"contentType,omitempty"`
	StatusCode  int       `json:"statusCode,omitempty"`
	Message     string    `json:"message,omitempty"`
	Truncated   bool      `json:"truncated,omitempty"`
	FetchMs     int64     `json:"fetchMs"`
}

func (r FetchResult) OK() bool { return r.Kind == FetchOK }

// Corpus is a compiled document split back into its header and raw entry
// blocks. Trailer holds whatever follows the final separator.
type Corpus struct {
	Header  string
	Blocks  []string
	Trailer string
}

type Classification struct {
	Index      int               `json:"index"`
	Title      string            `json:"title"`
	IsPoem     bool              `json:"isPoem"`
	Heuristic  bool              `json:"heuristic"`
	Rule       string            `json:"rule,omitempty"`
	AvgLineLen float64           `json:"avgLineLength"`
	ShortRatio float64           `json:"shortRatio"`
	Lines      int               `json:"lines"`
	Reason     map[string]string `json:"reason,omitempty"`
}
