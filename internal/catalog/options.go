package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// QueryParam is the address query parameter carrying the selection.
const QueryParam = "options"

// OptionIDs maps a variation type id to the chosen option id.
// It encodes as a JSON object ordered by type id.
type OptionIDs map[int]int

// TypeIDs returns the type ids in ascending order.
func (m OptionIDs) TypeIDs() []int {
	ids := make([]int, 0, len(m))
	for typeID := range m {
		ids = append(ids, typeID)
	}
	sort.Ints(ids)
	return ids
}

// Equal reports whether both maps hold the same pairs.
func (m OptionIDs) Equal(other OptionIDs) bool {
	if len(m) != len(other) {
		return false
	}
	for typeID, optionID := range m {
		if got, ok := other[typeID]; !ok || got != optionID {
			return false
		}
	}
	return true
}

// MarshalJSON writes {"typeId": optionId, ...} with keys in numeric order.
func (m OptionIDs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, typeID := range m.TypeIDs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%d", strconv.Itoa(typeID), m[typeID])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts an object whose keys are type ids and whose values
// are option ids, given either as numbers or numeric strings.
func (m *OptionIDs) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(OptionIDs, len(raw))
	for k, v := range raw {
		typeID, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("invalid variation type id %q", k)
		}
		optionID, err := parseOptionValue(v)
		if err != nil {
			return fmt.Errorf("invalid option id for type %d: %w", typeID, err)
		}
		out[typeID] = optionID
	}
	*m = out
	return nil
}

func parseOptionValue(v json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(v, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

// EncodeQuery renders the selection as the value of the options parameter.
func EncodeQuery(ids OptionIDs) string {
	b, _ := ids.MarshalJSON()
	return string(b)
}

// DecodeQuery reads a selection from address query values. Both the JSON form
// (options={"1":5}) and the flat bracket form (options[1]=5) are understood.
// Malformed entries are skipped; the result is never nil.
func DecodeQuery(values url.Values) OptionIDs {
	out := OptionIDs{}
	if raw := values.Get(QueryParam); raw != "" {
		var parsed OptionIDs
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
			for k, v := range parsed {
				out[k] = v
			}
		}
	}

	prefix := QueryParam + "["
	for key, vals := range values {
		if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, "]") || len(vals) == 0 {
			continue
		}
		typeID, err := strconv.Atoi(key[len(prefix) : len(key)-1])
		if err != nil {
			continue
		}
		optionID, err := strconv.Atoi(vals[0])
		if err != nil {
			continue
		}
		out[typeID] = optionID
	}
	return out
}

// PageURL returns path with the options parameter set to ids, keeping any
// other query parameters already present in path.
func PageURL(path string, ids OptionIDs) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	for key := range q {
		if strings.HasPrefix(key, QueryParam+"[") {
			q.Del(key)
		}
	}
	if len(ids) == 0 {
		q.Del(QueryParam)
	} else {
		q.Set(QueryParam, EncodeQuery(ids))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
