package blueprints

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Member is one key/value pair of a JSON object.
type Member struct {
	Name  string
	Value any
}

// Object is a JSON object with its member order preserved. Values are
// Object, []any, string, bool, json.Number or nil.
type Object []Member

// Get returns the last value stored under name.
func (o Object) Get(name string) (any, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Name == name {
			return o[i].Value, true
		}
	}
	return nil, false
}

// Document is a raw blueprint file as found on disk, before migration.
type Document = Object

// Parse decodes a blueprint file. The top level must be a JSON object.
func Parse(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("document is not a JSON object")
	}
	doc, err := readObject(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after document")
	}
	return doc, nil
}

func readObject(dec *json.Decoder) (Object, error) {
	obj := Object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("reading key: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", tok)
		}
		value, err := readValue(dec)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", name, err)
		}
		obj = append(obj, Member{Name: name, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("closing object: %w", err)
	}
	return obj, nil
}

func readValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch d {
	case '{':
		return readObject(dec)
	case '[':
		var arr []any
		for dec.More() {
			v, err := readValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("closing array: %w", err)
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", d)
	}
}

// Document renders the configuration in its current on-disk shape, with
// categories in canonical order and blueprint names sorted.
func (c Config) Document() Document {
	doc := Document{}
	for _, cat := range c.Categories() {
		records := Object{}
		for _, name := range c.Names(cat) {
			r := c[cat][name]
			records = append(records, Member{Name: name, Value: Object{
				{Name: string(FieldOwned), Value: r.Owned},
				{Name: string(FieldInvented), Value: r.Invented},
				{Name: string(FieldME), Value: json.Number(strconv.Itoa(r.ME))},
				{Name: string(FieldTE), Value: json.Number(strconv.Itoa(r.TE))},
			}})
		}
		doc = append(doc, Member{Name: string(cat), Value: records})
	}
	return doc
}
