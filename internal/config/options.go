package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// CustomerOptionsSection is the configuration section bound to CustomerOptions.
const CustomerOptionsSection = "CustomerOptions"

// CustomerOptions describes the customer the worker reports on. It is bound
// once at process start and never mutated afterwards.
type CustomerOptions struct {
	Name           string
	CustomerNumber int `validate:"gte=0"`
	Address        AddressOptions
}

// AddressOptions is bound from the Address sub-section of CustomerOptions.
type AddressOptions struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

// BindCustomerOptions parses the CustomerOptions section of values. Absent
// keys leave their field at the zero value. A present value that cannot be
// converted to the field's type is reported as ErrInvalidOptionValue, and
// every such failure is returned, not only the first.
func BindCustomerOptions(values *Values) (CustomerOptions, error) {
	r := &sectionReader{values: values.Section(CustomerOptionsSection), path: CustomerOptionsSection}

	opts := CustomerOptions{
		Name:           r.stringValue("Name"),
		CustomerNumber: r.intValue("CustomerNumber"),
	}

	addr := r.section("Address")
	opts.Address = AddressOptions{
		Street:     addr.stringValue("Street"),
		City:       addr.stringValue("City"),
		State:      addr.stringValue("State"),
		PostalCode: addr.stringValue("PostalCode"),
		Country:    addr.stringValue("Country"),
	}

	if err := errors.Join(append(r.errs, addr.errs...)...); err != nil {
		return CustomerOptions{}, err
	}

	if err := validate.Struct(opts); err != nil {
		return CustomerOptions{}, fmt.Errorf("%w: %s: %v", ErrValidation, CustomerOptionsSection, err)
	}

	return opts, nil
}

// sectionReader reads typed scalars from one section and collects conversion
// errors instead of stopping at the first one.
type sectionReader struct {
	values *Values
	path   string
	errs   []error
}

func (r *sectionReader) section(name string) *sectionReader {
	return &sectionReader{values: r.values.Section(name), path: r.path + ":" + name}
}

func (r *sectionReader) fail(key string, raw any, err error) {
	r.errs = append(r.errs, fmt.Errorf("%w: %s:%s=%v: %v", ErrInvalidOptionValue, r.path, key, raw, err))
}

func (r *sectionReader) stringValue(key string) string {
	raw := r.values.Get(key)
	if raw == nil {
		return ""
	}

	s, err := cast.ToStringE(raw)
	if err != nil {
		r.fail(key, raw, err)
		return ""
	}
	return s
}

func (r *sectionReader) intValue(key string) int {
	raw := r.values.Get(key)

	n, err := toInt(raw)
	if err != nil {
		r.fail(key, raw, err)
		return 0
	}
	return n
}

// toInt converts settings values to int. Strings are parsed as base-10,
// JSON numbers must be whole, and booleans are rejected.
func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		return strconv.Atoi(s)
	case float64:
		if v != math.Trunc(v) || v >= math.MaxInt || v < math.MinInt {
			return 0, fmt.Errorf("%v is not a whole number", v)
		}
		return int(v), nil
	case bool:
		return 0, fmt.Errorf("boolean is not a number")
	default:
		return cast.ToIntE(v)
	}
}
