package redis

import (
	"fmt"

	"github.com/mcoot/partygames/internal/model"
)

// Key prefix for all party game data
const keyPrefix = "party"

// sessionKey returns the Redis key for a truth-or-dare Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:tod:session:%s", keyPrefix, id)
}

// eligibleQuestionsKey returns the Redis key for the cached pool of active
// questions of one type and mode
func eligibleQuestionsKey(t model.ChallengeType, m model.Mode) string {
	return fmt.Sprintf("%s:questions:eligible:%s:%s", keyPrefix, t, m)
}

// questionGenerationKey returns the Redis key of the counter bumped on every
// question write
func questionGenerationKey() string {
	return fmt.Sprintf("%s:questions:generation", keyPrefix)
}

// allEligibleQuestionsKeys lists every pool key so mutations can drop them together
func allEligibleQuestionsKeys() []string {
	keys := make([]string, 0, 2*len(model.ValidModes()))
	for _, t := range []model.ChallengeType{model.ChallengeTruth, model.ChallengeDare} {
		for _, m := range model.ValidModes() {
			keys = append(keys, eligibleQuestionsKey(t, m))
		}
	}
	return keys
}
