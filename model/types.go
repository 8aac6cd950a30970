package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringArr stores a []string as a JSON text column.
type StringArr []string

func (a StringArr) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *StringArr) Scan(value interface{}) error {
	if value == nil {
		*a = StringArr{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for StringArr")
	}

	if len(data) == 0 {
		*a = StringArr{}
		return nil
	}
	return json.Unmarshal(data, (*[]string)(a))
}
