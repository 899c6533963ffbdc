package entangld

import (
	"fmt"

	"github.com/google/uuid"
)

// CorrelationId is the chain-wide identifier shared by every link of one
// logical subscription, and the per-call identifier used to match a
// `value` reply back to its `get`: a universally-unique identifier in
// canonical hyphenated form.
//
// Wraps a 16-byte identifier behind String/MarshalJSON/UnmarshalJSON,
// backed by google/uuid rather than a ULID, because unsubscribe's
// id-vs-path disambiguation matches against the canonical UUID text
// form, not a ULID's base32 layout.
type CorrelationId struct {
	uuid uuid.UUID
}

var NilCorrelationId = CorrelationId{}

func NewCorrelationId() CorrelationId {
	return CorrelationId{uuid: uuid.New()}
}

// ParseCorrelationId parses the canonical hyphenated form. It returns an
// error for anything else, including a ULID, a bare hex string, or a
// dotted path. Unsubscribe uses this both to recognize the canonical
// chain-id form and to parse it.
func ParseCorrelationId(s string) (CorrelationId, error) {
	// uuid.Parse also accepts the 32-hex, braced and urn:uuid: forms;
	// only the 36-character hyphenated form is canonical.
	if len(s) != 36 {
		return CorrelationId{}, fmt.Errorf("not a canonical correlation id: %q", s)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return CorrelationId{}, err
	}
	return CorrelationId{uuid: u}, nil
}

func (self CorrelationId) String() string {
	return self.uuid.String()
}

func (self CorrelationId) IsNil() bool {
	return self.uuid == uuid.Nil
}

func (self CorrelationId) Equal(other CorrelationId) bool {
	return self.uuid == other.uuid
}

func (self CorrelationId) MarshalJSON() ([]byte, error) {
	text, err := self.uuid.MarshalText()
	if err != nil {
		return nil, err
	}
	return append(append([]byte{'"'}, text...), '"'), nil
}

func (self *CorrelationId) UnmarshalJSON(src []byte) error {
	// strip the surrounding quotes added by the JSON string encoding
	if len(src) < 2 {
		return self.uuid.UnmarshalText(src)
	}
	return self.uuid.UnmarshalText(src[1 : len(src)-1])
}
