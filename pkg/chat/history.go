package chat

import (
	"encoding/json"
	"fmt"
)

// HistoryPair is one completed question and answer sent as context with the
// next request. On the wire it is a two element array: ["question","answer"].
type HistoryPair struct {
	Question string
	Answer   string
}

func (p HistoryPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Question, p.Answer})
}

func (p *HistoryPair) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("failed to unmarshal history pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("history pair must have 2 elements, got %d", len(pair))
	}
	p.Question, p.Answer = pair[0], pair[1]
	return nil
}

// BuildHistory pairs every user exchange with the assistant exchange that
// immediately follows it. The greeting has no question and an unanswered
// question has no answer, so neither contributes a pair.
func BuildHistory(exchanges []Exchange) []HistoryPair {
	history := make([]HistoryPair, 0, len(exchanges)/2)
	for i := 0; i+1 < len(exchanges); i++ {
		if exchanges[i].IsUser() && exchanges[i+1].IsAssistant() {
			history = append(history, HistoryPair{
				Question: exchanges[i].Text,
				Answer:   exchanges[i+1].Text,
			})
			i++
		}
	}
	return history
}
