package elevenlabs

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

// Timestamp is a custom time type that normalizes the creation-date
// formats the history endpoint has been observed to return: a numeric
// Unix epoch (integer or fractional seconds) or an ISO-8601 string.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts either a JSON number (epoch seconds) or a string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}

		formats := []string{
			time.RFC3339Nano,
			time.RFC3339,
			"2006-01-02T15:04:05",
			"2006-01-02 15:04:05",
		}
		for _, format := range formats {
			if parsed, err := time.Parse(format, s); err == nil {
				t.Time = parsed
				return nil
			}
		}
		return fmt.Errorf("unable to parse timestamp: %s", s)
	}

	epoch, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("unable to parse timestamp: %s", data)
	}
	sec, frac := math.Modf(epoch)
	t.Time = time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
	return nil
}

// historyItem is one record in the history listing response.
type historyItem struct {
	ID        string    `json:"history_item_id"`
	CreatedAt Timestamp `json:"created_at"`
	Text      string    `json:"text"`
}

// historyPage is one page of the history listing response.
type historyPage struct {
	Items      []historyItem `json:"history"`
	LastItemID string        `json:"last_history_item_id"`
	HasMore    bool          `json:"has_more"`
}
