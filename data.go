package obs

import "fmt"

// Data is a strong reference to a native settings object (obs_data_t).
// It holds a flat map of text, integer and boolean values; see FieldsOf for
// how Go values are flattened into it.
type Data struct {
	ref
}

func newData(api nativeAPI, fn string, ptr uintptr) *Data {
	r, ok := claim(api, dataKind, fn, ptr)
	if !ok {
		return nil
	}
	return &Data{r}
}

// NewData creates an empty settings object. Settings objects live outside
// the core, so this works in any engine state.
func (e *Engine) NewData() (*Data, error) {
	d := newData(e.api, "obs_data_create", e.api.dataCreate())
	if d == nil {
		return nil, nullPointer("data_create")
	}
	return d, nil
}

// LoadData parses a JSON object into a new settings object.
func (e *Engine) LoadData(json string) (*Data, error) {
	cJSON, err := cString("data_create_from_json", json)
	if err != nil {
		return nil, err
	}
	d := newData(e.api, "obs_data_create_from_json", e.api.dataCreateFromJSON(cJSON))
	if d == nil {
		return nil, &Error{Kind: KindJSON, Op: "data_create_from_json"}
	}
	return d, nil
}

// DataFromValue flattens v with FieldsOf into a new settings object.
func (e *Engine) DataFromValue(v any) (*Data, error) {
	fields, err := FieldsOf(v)
	if err != nil {
		return nil, err
	}
	return e.DataFromFields(fields)
}

// DataFromFields creates a settings object holding fields.
func (e *Engine) DataFromFields(fields Fields) (*Data, error) {
	d, err := e.NewData()
	if err != nil {
		return nil, err
	}
	if err := d.SetFields(fields); err != nil {
		d.Release()
		return nil, err
	}
	return d, nil
}

// Clone returns an independent reference to the same object.
func (d *Data) Clone() *Data {
	return &Data{d.clone()}
}

// Release drops this reference. It is safe on nil and on released handles.
func (d *Data) Release() {
	if d != nil {
		d.release()
	}
}

func (d *Data) SetString(key, value string) error {
	k, err := cString("data_set_string", key)
	if err != nil {
		return err
	}
	v, err := cString("data_set_string", value)
	if err != nil {
		return err
	}
	d.api.dataSetString(d.raw(), k, v)
	return nil
}

// GetString returns the value under key; missing keys read as "".
func (d *Data) GetString(key string) (string, error) {
	k, err := cString("data_get_string", key)
	if err != nil {
		return "", err
	}
	return goString("data_get_string", d.api.dataGetString(d.raw(), k))
}

func (d *Data) SetInt(key string, value int64) error {
	k, err := cString("data_set_int", key)
	if err != nil {
		return err
	}
	d.api.dataSetInt(d.raw(), k, value)
	return nil
}

func (d *Data) GetInt(key string) (int64, error) {
	k, err := cString("data_get_int", key)
	if err != nil {
		return 0, err
	}
	return d.api.dataGetInt(d.raw(), k), nil
}

func (d *Data) SetBool(key string, value bool) error {
	k, err := cString("data_set_bool", key)
	if err != nil {
		return err
	}
	d.api.dataSetBool(d.raw(), k, value)
	return nil
}

func (d *Data) GetBool(key string) (bool, error) {
	k, err := cString("data_get_bool", key)
	if err != nil {
		return false, err
	}
	return d.api.dataGetBool(d.raw(), k), nil
}

// Set stores v under key with the setter matching its kind.
func (d *Data) Set(key string, v Scalar) error {
	switch v.kind {
	case ScalarInteger:
		return d.SetInt(key, v.num)
	case ScalarBoolean:
		return d.SetBool(key, v.flag)
	default:
		return d.SetString(key, v.text)
	}
}

// SetFields stores every field in order. It stops at the first key that
// cannot cross the ABI; earlier fields stay set.
func (d *Data) SetFields(fields Fields) error {
	for _, f := range fields {
		if err := d.Set(f.Key, f.Value); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether key holds a user value.
func (d *Data) Has(key string) bool {
	k, err := cString("data_has_user_value", key)
	if err != nil {
		return false
	}
	return d.api.dataHasUserValue(d.raw(), k)
}

// Dump returns the object as JSON text. The buffer belongs to the data
// object, so the text is copied before returning.
func (d *Data) Dump() (string, error) {
	ptr := d.api.dataGetJSON(d.raw())
	if ptr == 0 {
		return "", &Error{Kind: KindJSON, Op: "data_get_json"}
	}
	return goString("data_get_json", ptr)
}

// Fields reads the object back as flat fields.
func (d *Data) Fields() (Fields, error) {
	doc, err := d.Dump()
	if err != nil {
		return nil, err
	}
	return ParseFields(doc)
}

func (d *Data) String() string {
	if d == nil || d.Released() {
		return "Data(<released>)"
	}
	doc, err := d.Dump()
	if err != nil {
		return fmt.Sprintf("Data(%v)", err)
	}
	return "Data(" + doc + ")"
}
