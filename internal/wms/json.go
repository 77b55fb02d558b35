package wms

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// FlexNumber decodes a JSON number or a numeric string; anything else becomes
// zero. Mirrors the lenient numeric coercion the shop platforms rely on.
type FlexNumber float64

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = FlexNumber(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			*n = FlexNumber(f)
			return nil
		}
	}
	*n = 0
	return nil
}

// FlexString decodes a JSON string, a number (formatted back to text) or an
// object carrying a name field; anything else becomes empty. Shop platforms
// send customer either as a plain string or as {name, phone, ...}, and some
// send numeric external ids.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = FlexString(str)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*s = FlexString(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		*s = FlexString(obj.Name)
		return nil
	}
	*s = ""
	return nil
}

// unmarshalKeepExtra decodes data into v and returns every top-level key the
// struct does not own, so a later marshal can write the document back whole.
func unmarshalKeepExtra(data []byte, v any) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range jsonKeys(v) {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// marshalWithExtra marshals v (a struct) and overlays the result on extra,
// with v's own fields winning on key collisions.
func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	own, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return own, nil
	}
	merged := make(map[string]json.RawMessage, len(extra)+8)
	for k, raw := range extra {
		merged[k] = raw
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(own, &fields); err != nil {
		return nil, err
	}
	for k, raw := range fields {
		merged[k] = raw
	}
	return json.Marshal(merged)
}

func jsonKeys(v any) []string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		keys = append(keys, name)
	}
	return keys
}

// Alias types break the MarshalJSON/UnmarshalJSON recursion below.
type (
	blobAlias    Blob
	modelAlias   Model
	variantAlias Variant
	rawItemAlias RawItem
	stockAlias   JewelryStockEntry
	orderAlias   Order
	lineAlias    OrderLine
)

func (b *Blob) UnmarshalJSON(data []byte) error {
	var a blobAlias
	extra, err := unmarshalKeepExtra(data, &a)
	if err != nil {
		return err
	}
	*b = Blob(a)
	b.Extra = extra
	return nil
}

func (b Blob) MarshalJSON() ([]byte, error) {
	a := blobAlias(b)
	if a.Models == nil {
		a.Models = []Model{}
	}
	if a.RawItems == nil {
		a.RawItems = []RawItem{}
	}
	if a.JewelryStock == nil {
		a.JewelryStock = []JewelryStockEntry{}
	}
	if a.Orders == nil {
		a.Orders = []Order{}
	}
	return marshalWithExtra(a, b.Extra)
}

func (m *Model) UnmarshalJSON(data []byte) error {
	var a modelAlias
	extra, err := unmarshalKeepExtra(data, &a)
	if err != nil {
		return err
	}
	*m = Model(a)
	m.Extra = extra
	return nil
}

func (m Model) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(modelAlias(m), m.Extra)
}

func (v *Variant) UnmarshalJSON(data []byte) error {
	var a variantAlias
	extra, err := unmarshalKeepExtra(data, &a)
	if err != nil {
		return err
	}
	*v = Variant(a)
	v.Extra = extra
	return nil
}

func (v Variant) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(variantAlias(v), v.Extra)
}

func (r *RawItem) UnmarshalJSON(data []byte) error {
	var a rawItemAlias
	extra, err := unmarshalKeepExtra(data, &a)
	if err != nil {
		return err
	}
	*r = RawItem(a)
	r.Extra = extra
	return nil
}

func (r RawItem) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(rawItemAlias(r), r.Extra)
}

func (j *JewelryStockEntry) UnmarshalJSON(data []byte) error {
	var a stockAlias
	extra, err := unmarshalKeepExtra(data, &a)
	if err != nil {
		return err
	}
	*j = JewelryStockEntry(a)
	j.Extra = extra
	return nil
}

func (j JewelryStockEntry) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(stockAlias(j), j.Extra)
}

func (o *Order) UnmarshalJSON(data []byte) error {
	var a orderAlias
	extra, err := unmarshalKeepExtra(data, &a)
	if err != nil {
		return err
	}
	*o = Order(a)
	o.Extra = extra
	return nil
}

func (o Order) MarshalJSON() ([]byte, error) {
	a := orderAlias(o)
	if a.Lines == nil {
		a.Lines = []OrderLine{}
	}
	if a.Payments == nil {
		a.Payments = []json.RawMessage{}
	}
	return marshalWithExtra(a, o.Extra)
}

func (l *OrderLine) UnmarshalJSON(data []byte) error {
	var a lineAlias
	extra, err := unmarshalKeepExtra(data, &a)
	if err != nil {
		return err
	}
	*l = OrderLine(a)
	l.Extra = extra
	return nil
}

func (l OrderLine) MarshalJSON() ([]byte, error) {
	return marshalWithExtra(lineAlias(l), l.Extra)
}
