package cricapi

import (
	"encoding/json"

	"github.com/preston-bernstein/cricket-live-service/internal/domain/matches"
)

// envelope is the common response wrapper: {status, reason?, message?, data?}.
type envelope struct {
	Status  string          `json:"status"`
	Reason  string          `json:"reason"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) failed() bool {
	return e.Status == "fail" || e.Status == "failure"
}

func (e envelope) failureReason() string {
	switch {
	case e.Reason != "":
		return e.Reason
	case e.Message != "":
		return e.Message
	default:
		return "Unknown error"
	}
}

func (e envelope) hasData() bool {
	return len(e.Data) > 0 && string(e.Data) != "null"
}

// commentaryData distinguishes a missing commentary list from an empty one.
type commentaryData struct {
	Commentary *[]matches.CommentaryEntry `json:"commentary"`
}
