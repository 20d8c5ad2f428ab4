package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// scanJSONB разбирает JSONB колонку в dest. NULL и пустое значение дают пустой список.
func scanJSONB(value interface{}, dest interface{}) (empty bool, err error) {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return true, nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return false, fmt.Errorf("unsupported JSONB value type %T", value)
	}
	if len(raw) == 0 {
		return true, nil
	}
	return false, json.Unmarshal(raw, dest)
}

// jsonbValue сериализует список; пустой список хранится как [] а не null
func jsonbValue(n int, v interface{}) (driver.Value, error) {
	if n == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(v)
}

// StringArray — список строк в JSONB (имена победителей)
type StringArray []string

// Scan реализует sql.Scanner
func (o *StringArray) Scan(value interface{}) error {
	empty, err := scanJSONB(value, o)
	if empty {
		*o = StringArray{}
	}
	return err
}

// Value реализует driver.Valuer
func (o StringArray) Value() (driver.Value, error) {
	return jsonbValue(len(o), []string(o))
}

// TeamStanding — итоговая позиция команды в завершённой игре
type TeamStanding struct {
	Rank     int    `json:"rank"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Score    int    `json:"score"`
	IsWinner bool   `json:"is_winner"`
}

// Standings — таблица позиций, хранится в JSONB
type Standings []TeamStanding

// Scan реализует sql.Scanner
func (s *Standings) Scan(value interface{}) error {
	empty, err := scanJSONB(value, s)
	if empty {
		*s = Standings{}
	}
	return err
}

// Value реализует driver.Valuer
func (s Standings) Value() (driver.Value, error) {
	return jsonbValue(len(s), []TeamStanding(s))
}
