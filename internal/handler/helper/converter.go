package helper

import (
	"strconv"
	"strings"
)

// SplitOutcomeKeys разделяет результаты финала по виду ключей.
// Если все ключи являются неотрицательными числами, они считаются индексами команд,
// иначе все ключи трактуются как имена команд.
func SplitOutcomeKeys(outcomes map[string]bool) (byIndex map[int]bool, byName map[string]bool) {
	byIndex = make(map[int]bool, len(outcomes))
	for key, correct := range outcomes {
		idx, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || idx < 0 {
			byIndex = nil
			break
		}
		byIndex[idx] = correct
	}
	if byIndex != nil {
		return byIndex, nil
	}

	byName = make(map[string]bool, len(outcomes))
	for key, correct := range outcomes {
		byName[key] = correct
	}
	return nil, byName
}
