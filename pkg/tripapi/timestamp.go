package tripapi

import (
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Timestamp is a point in time that encodes as an RFC 3339 string, the same
// way google.protobuf.Timestamp does in protojson.
type Timestamp struct {
	*timestamppb.Timestamp
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{timestamppb.New(t)}
}

// UnixTimestamp wraps a Unix time in seconds. Zero means unset.
func UnixTimestamp(sec int64) Timestamp {
	if sec == 0 {
		return Timestamp{}
	}
	return NewTimestamp(time.Unix(sec, 0))
}

// UnixMilliTimestamp wraps a Unix time in milliseconds. Zero means unset.
func UnixMilliTimestamp(ms int64) Timestamp {
	if ms == 0 {
		return Timestamp{}
	}
	return NewTimestamp(time.UnixMilli(ms))
}

// Unix returns the time in seconds, or 0 when unset.
func (t Timestamp) Unix() int64 {
	if t.Timestamp == nil {
		return 0
	}
	return t.AsTime().Unix()
}

// UnixMilli returns the time in milliseconds, or 0 when unset.
func (t Timestamp) UnixMilli() int64 {
	if t.Timestamp == nil {
		return 0
	}
	return t.AsTime().UnixMilli()
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Timestamp == nil {
		return []byte("null"), nil
	}
	return protojson.Marshal(t.Timestamp)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Timestamp = nil
		return nil
	}
	ts := &timestamppb.Timestamp{}
	if err := protojson.Unmarshal(data, ts); err != nil {
		return err
	}
	t.Timestamp = ts
	return nil
}
