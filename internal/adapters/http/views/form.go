package views

// Form is a generic form view. Errors is keyed by field name.
type Form struct {
	Title     string
	Action    string
	Submit    string
	Cancel    string
	Multipart bool
	Fields    []Field
	Errors    map[string][]string
}

// Field is one input of a form
type Field struct {
	Name        string
	Label       string
	Type        string
	Value       string
	Placeholder string
	Options     []Option
	Required    bool
	Multiple    bool
	Accept      string
	Help        string
}

// Option is a choice of a select field
type Option struct {
	Value string
	Label string
}

// Error returns the first message for field name
func (f Form) Error(name string) string {
	if msgs := f.Errors[name]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// HasErrors reports whether any field failed validation
func (f Form) HasErrors() bool {
	return len(f.Errors) > 0
}

// InputName is the name the browser posts; multiple files use the array form
func (f Field) InputName() string {
	if f.Type == "file" && f.Multiple {
		return f.Name + "[]"
	}
	return f.Name
}

// Input builds a text-like field
func Input(name, label, typ, value string, required bool) Field {
	return Field{Name: name, Label: label, Type: typ, Value: value, Required: required}
}

// Select builds a select field
func Select(name, label, value string, options []Option) Field {
	return Field{Name: name, Label: label, Type: "select", Value: value, Options: options, Required: true}
}

// Options lists enum values as select options
func Options[T ~string](values []T) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: string(v), Label: Label(string(v))}
	}
	return out
}
