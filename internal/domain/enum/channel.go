package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Channel is the fulfilment channel of an order
type Channel int

const (
	ChannelSeated   Channel = 0
	ChannelTakeaway Channel = 1
	ChannelDelivery Channel = 2
)

var channelNames = [...]string{"seated", "takeaway", "delivery"}

func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return "unknown"
	}
	return channelNames[c]
}

// IsValid reports whether c is one of the declared channels
func (c Channel) IsValid() bool {
	return c >= ChannelSeated && c <= ChannelDelivery
}

// ParseChannel maps a channel name to its value
func ParseChannel(s string) (Channel, bool) {
	for i, name := range channelNames {
		if name == s {
			return Channel(i), true
		}
	}
	return ChannelSeated, false
}

func (c Channel) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Channel) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*c = Channel(i)
		return nil
	}
	v, ok := ParseChannel(str)
	if !ok {
		return fmt.Errorf("unknown channel %q", str)
	}
	*c = v
	return nil
}

func (c Channel) Value() (driver.Value, error) {
	return int64(c), nil
}

func (c *Channel) Scan(value interface{}) error {
	if value == nil {
		*c = ChannelSeated
		return nil
	}
	switch v := value.(type) {
	case int64:
		*c = Channel(v)
	case int:
		*c = Channel(v)
	}
	return nil
}
