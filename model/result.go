package model

import (
	"time"

	"digestly/llm"
)

// SummaryResult is the terminal artifact of one summarization request,
// returned to the caller and persisted by the history store on success.
type SummaryResult struct {
	ID             string            `json:"id,omitempty"`
	Title          string            `json:"title"`
	Author         string            `json:"author"`
	Summary        string            `json:"summary"`
	SourceLink     string            `json:"sourceLink,omitempty"`
	IsYoutubeLink  bool              `json:"isYoutubeLink"`
	IsBiliBiliLink bool              `json:"isBiliBiliLink"`
	Length         llm.SummaryLength `json:"length"`
	IsError        bool              `json:"isError"`
	// ErrorKind carries the classified taxonomy kind when IsError is set.
	ErrorKind string `json:"errorKind,omitempty"`
	// CreatedOn is set when the result is persisted.
	CreatedOn time.Time `json:"createdOn,omitzero"`
}
