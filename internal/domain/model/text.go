package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Text — строковое значение из JSON backend.
// Табличный backend отдаёт ячейки как строки, числа, bool или null;
// все варианты приводятся к строке, null — к пустой.
type Text string

// String возвращает значение как string.
func (t Text) String() string {
	return string(t)
}

// UnmarshalJSON реализует json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*t = Text(strconv.FormatBool(b))
		return nil
	case '{', '[':
		return fmt.Errorf("model: неподдерживаемое значение %s", truncate(data, 32))
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*t = Text(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
