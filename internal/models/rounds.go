package models

import "strings"

const (
	defaultRoundTopic       = "General Screening"
	defaultRoundDescription = "Initial discussion."
	emptyRoundDescription   = "No description provided."
)

// NormalizeRounds numbers rounds 1..N in list order. A job always has at
// least one round, so an empty list yields a single general screening round.
func NormalizeRounds(inputs []RoundInput) []Round {
	if len(inputs) == 0 {
		return []Round{{RoundNumber: 1, Topic: defaultRoundTopic, Description: defaultRoundDescription}}
	}

	rounds := make([]Round, 0, len(inputs))
	for i, in := range inputs {
		desc := strings.TrimSpace(in.Description)
		if desc == "" {
			desc = emptyRoundDescription
		}
		rounds = append(rounds, Round{
			RoundNumber: i + 1,
			Topic:       strings.TrimSpace(in.Topic),
			Description: desc,
		})
	}
	return rounds
}

// RenumberRounds restores contiguous 1..N numbering on an existing list
func RenumberRounds(rounds []Round) []Round {
	inputs := make([]RoundInput, 0, len(rounds))
	for _, r := range rounds {
		inputs = append(inputs, RoundInput{Topic: r.Topic, Description: r.Description})
	}
	return NormalizeRounds(inputs)
}
