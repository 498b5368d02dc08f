package rpc

import (
	"context"
	"encoding/json"
	"fmt"
)

// Outcome is the {success, message, ...extra} envelope every mutating procedure returns
type Outcome struct {
	Success bool
	Message string
	Extra   map[string]json.RawMessage
}

// UnmarshalJSON splits the envelope into its fixed fields and the remaining extras
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*o = Outcome{Extra: make(map[string]json.RawMessage)}
	for k, v := range raw {
		switch k {
		case "success":
			if err := json.Unmarshal(v, &o.Success); err != nil {
				return fmt.Errorf("decode success: %w", err)
			}
		case "message":
			// message may be null
			_ = json.Unmarshal(v, &o.Message)
		default:
			o.Extra[k] = v
		}
	}
	return nil
}

// MarshalJSON flattens the envelope back into one object
func (o Outcome) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(o.Extra)+2)
	for k, v := range o.Extra {
		out[k] = v
	}
	out["success"] = o.Success
	out["message"] = o.Message
	return json.Marshal(out)
}

// Float returns a numeric extra field
func (o *Outcome) Float(key string) (float64, bool) {
	v, ok := o.Extra[key]
	if !ok {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(v, &f); err != nil {
		return 0, false
	}
	return f, true
}

// Int returns an integral extra field
func (o *Outcome) Int(key string) (int64, bool) {
	f, ok := o.Float(key)
	if !ok {
		return 0, false
	}
	return int64(f), true
}

// String returns a string extra field
func (o *Outcome) String(key string) (string, bool) {
	v, ok := o.Extra[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// Mutate calls a mutating procedure and converts success:false into a LogicalError.
// The decoded outcome is returned in both cases so callers can show the backend's message.
func Mutate(ctx context.Context, c Caller, procedure string, args Args) (*Outcome, error) {
	var out Outcome
	if err := c.Call(ctx, procedure, args, &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return &out, &LogicalError{Procedure: procedure, Message: out.Message}
	}
	return &out, nil
}
