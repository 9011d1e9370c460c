package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const followUpSuffix = "-followUp"

// ResponseID identifies either a primary question or the follow-up owned by it.
// Its wire form is "<id>" or "<id>-followUp".
type ResponseID struct {
	Question int
	FollowUp bool
}

// PrimaryID returns the id of a primary question's own answer.
func PrimaryID(question int) ResponseID {
	return ResponseID{Question: question}
}

// FollowUpID returns the id of the follow-up answer owned by question.
func FollowUpID(question int) ResponseID {
	return ResponseID{Question: question, FollowUp: true}
}

func (id ResponseID) String() string {
	if id.FollowUp {
		return strconv.Itoa(id.Question) + followUpSuffix
	}
	return strconv.Itoa(id.Question)
}

// ParseResponseID parses the wire form produced by String.
func ParseResponseID(s string) (ResponseID, error) {
	base, followUp := strings.CutSuffix(s, followUpSuffix)
	n, err := strconv.Atoi(base)
	if err != nil {
		return ResponseID{}, fmt.Errorf("invalid response id %q: %w", s, err)
	}
	return ResponseID{Question: n, FollowUp: followUp}, nil
}

func (id ResponseID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON accepts both the string form and a bare number for primaries.
func (id *ResponseID) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*id = PrimaryID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("response id must be a string or number: %w", err)
	}
	parsed, err := ParseResponseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ResponseEntry is one recorded answer
type ResponseEntry struct {
	QuestionID ResponseID `json:"question_id"`
	Answer     string     `json:"answer"`
}
