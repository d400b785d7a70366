package display

import (
	"bytes"
	"encoding/json"
)

// PrettyJSON indents a JSON document, returning it unchanged if it does not parse
func PrettyJSON(data []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		return string(data)
	}
	return out.String()
}
