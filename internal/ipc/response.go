package ipc

import "reflect"

// Response is the canonical reply envelope for every channel.
// Success=true implies Error is empty; Success=false implies Data is nil.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Fail builds a failed envelope with a human-readable message.
func Fail(msg string) Response {
	if msg == "" {
		msg = "operation failed"
	}
	return Response{Success: false, Error: msg}
}

// Normalize maps a heterogeneous raw reply value into the canonical
// envelope. Handlers are free to return a ready envelope, a bare boolean,
// a slice, or a plain value; this is the single choke point that absorbs
// the differences. Rules, in order:
//
//  1. an envelope (Response or *Response) passes through unchanged
//  2. a bare boolean becomes {success: v, data: nil}
//  3. a slice or array becomes {success: true, data: v}
//  4. any other non-nil value becomes {success: true, data: v}
//  5. nil becomes {success: false, error: "empty response"}
//
// Note on rule 2: a handler whose legitimate result is the value false must
// return OK(false) explicitly, otherwise the reply reads as a failure.
func Normalize(raw any) Response {
	switch v := raw.(type) {
	case Response:
		return v
	case *Response:
		if v != nil {
			return *v
		}
	case bool:
		return Response{Success: v}
	case map[string]any:
		// Decoded JSON envelope from the headless transport, already canonical.
		if success, ok := v["success"].(bool); ok {
			resp := Response{Success: success, Data: v["data"]}
			if msg, ok := v["error"].(string); ok {
				resp.Error = msg
			}
			return resp
		}
	case nil:
		return Fail("empty response")
	}

	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return Response{Success: true, Data: raw}
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Chan, reflect.Func:
		if rv.IsNil() {
			return Fail("empty response")
		}
	}
	return Response{Success: true, Data: raw}
}
