package lambda

import (
	"encoding/base64"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	defaultMethod = "GET"
	defaultPath   = "/"
)

// Normalize converts any supported inbound payload into an Event.
//
// Accepted shapes are *Event and Event, raw JSON (json.RawMessage, []byte, string),
// and anything encoding/json can marshal into an object: key/value maps and
// attribute-bearing structs such as events.APIGatewayProxyRequest,
// events.APIGatewayV2HTTPRequest and events.LambdaFunctionURLRequest. JSON objects
// are walked in document order so query and header order survive. Go maps carry
// no order and come out sorted by key.
func Normalize(v any) (*Event, error) {
	switch in := v.(type) {
	case nil:
		return (&Event{}).withDefaults(), nil
	case *Event:
		if in == nil {
			return (&Event{}).withDefaults(), nil
		}
		e := *in
		return e.withDefaults(), nil
	case Event:
		return in.withDefaults(), nil
	case json.RawMessage:
		return decodeEvent(in)
	case []byte:
		return decodeEvent(in)
	case string:
		return decodeEvent([]byte(in))
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "unsupported event type %T", v)
	}
	e, err := decodeEvent(raw)
	if err != nil {
		return nil, err
	}
	// encoding/json turns []byte into base64 text; a byte body is used as-is
	if body, ok := byteBody(v); ok {
		e.Body = body
	}
	return e, nil
}

// byteBody finds a []byte body in a string-keyed map or a struct, matching the
// key, field name or json tag case-insensitively
func byteBody(v any) ([]byte, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		it := rv.MapRange()
		for it.Next() {
			if strings.EqualFold(it.Key().String(), "body") {
				return asBytes(it.Value())
			}
		}
	case reflect.Struct:
		t := rv.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "" {
				name = field.Name
			}
			if strings.EqualFold(name, "body") {
				return asBytes(rv.Field(i))
			}
		}
	}
	return nil, false
}

func asBytes(v reflect.Value) ([]byte, bool) {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice || v.Type().Elem().Kind() != reflect.Uint8 || v.IsNil() {
		return nil, false
	}
	return v.Bytes(), true
}

func (e *Event) withDefaults() *Event {
	if e.Method == "" {
		e.Method = defaultMethod
	}
	if e.Path == "" {
		e.Path = defaultPath
	}
	return e
}

// eventFields collects every alias before precedence is resolved
type eventFields struct {
	method        string
	contextMethod string
	path          string
	rawPath       string
	rawQuery      string
	query         []Param
	headers       []Param
	cookies       []string
	body          []byte
	base64        bool
}

func decodeEvent(raw []byte) (*Event, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return (&Event{}).withDefaults(), nil
	}
	if !gjson.ValidBytes(raw) {
		return nil, errors.New("event is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if doc.Type == gjson.Null {
		return (&Event{}).withDefaults(), nil
	}
	if !doc.IsObject() {
		return nil, errors.Errorf("event must be a JSON object, got %s", doc.Type)
	}

	var f eventFields
	doc.ForEach(func(key, value gjson.Result) bool {
		switch strings.ToLower(key.String()) {
		case "method", "httpmethod":
			f.method = value.String()
		case "requestcontext":
			f.contextMethod = value.Get("http.method").String()
			if f.contextMethod == "" {
				f.contextMethod = value.Get("httpMethod").String()
			}
		case "path":
			f.path = value.String()
		case "rawpath":
			f.rawPath = value.String()
		case "querystringparameters", "queryparameters", "query":
			f.query = append(f.query, pairs(value)...)
		case "rawquerystring":
			f.rawQuery = value.String()
		case "headers":
			f.headers = append(f.headers, pairs(value)...)
		case "cookies":
			for _, c := range value.Array() {
				f.cookies = append(f.cookies, c.String())
			}
		case "body":
			switch value.Type {
			case gjson.Null:
			case gjson.String:
				f.body = []byte(value.Str)
			default:
				f.body = []byte(value.Raw)
			}
		case "isbase64encoded":
			f.base64 = value.Bool()
		}
		return true
	})

	return f.event()
}

func (f eventFields) event() (*Event, error) {
	e := &Event{
		Method:  firstNonEmpty(f.method, f.contextMethod),
		Path:    firstNonEmpty(f.path, f.rawPath),
		Query:   f.query,
		Headers: f.headers,
		Body:    f.body,
	}

	// rawQueryString keeps the caller's order and encoding, the parsed map does not
	if f.rawQuery != "" {
		e.Query = splitQuery(f.rawQuery)
	}

	if len(f.cookies) > 0 && !hasParam(e.Headers, "cookie") {
		e.Headers = append(e.Headers, Param{Key: "cookie", Value: strings.Join(f.cookies, "; ")})
	}

	if f.base64 && len(e.Body) > 0 {
		decoded, err := base64.StdEncoding.DecodeString(string(e.Body))
		if err != nil {
			return nil, errors.Wrap(err, "decode base64 body")
		}
		e.Body = decoded
	}

	return e.withDefaults(), nil
}

// pairs flattens a JSON object into ordered params; array values repeat the key.
// A list of {"key","value"} objects is accepted as well.
func pairs(obj gjson.Result) []Param {
	var out []Param
	if obj.IsArray() {
		for _, item := range obj.Array() {
			if k := item.Get("key"); k.Exists() {
				out = append(out, Param{Key: k.String(), Value: item.Get("value").String()})
			}
		}
		return out
	}
	if !obj.IsObject() {
		return nil
	}
	obj.ForEach(func(k, v gjson.Result) bool {
		if v.IsArray() {
			for _, item := range v.Array() {
				out = append(out, Param{Key: k.String(), Value: item.String()})
			}
			return true
		}
		if v.Type == gjson.Null {
			return true
		}
		out = append(out, Param{Key: k.String(), Value: v.String()})
		return true
	})
	return out
}

func splitQuery(raw string) []Param {
	var out []Param
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		out = append(out, Param{Key: k, Value: v})
	}
	return out
}

func hasParam(params []Param, key string) bool {
	for _, p := range params {
		if strings.EqualFold(p.Key, key) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
