package circles

import "time"

// FieldKeys lists the option object keys understood by OptionsFromFields
var FieldKeys = []string{"id", "radius", "width", "colors", "value", "max_value", "maxValue", "duration", "text"}

// OptionsFromFields builds Options from a script-style option object.
//
// Values are float64, string, []any (colors), func(float64) string (text),
// or nil for an explicit null. A null duration disables the animation; a zero
// or absent duration means DefaultDuration. max_value wins over maxValue.
func OptionsFromFields(fields map[string]any) Options {
	var o Options
	o.ID, _ = fields["id"].(string)
	o.Radius, _ = fields["radius"].(float64)
	o.Width, _ = fields["width"].(float64)
	o.Value, _ = fields["value"].(float64)

	if v, ok := fields["max_value"].(float64); ok {
		o.MaxValue = v
	} else if v, ok := fields["maxValue"].(float64); ok {
		o.MaxValue = v
	}

	if colors, ok := fields["colors"].([]any); ok {
		for i := 0; i < len(o.Colors) && i < len(colors); i++ {
			o.Colors[i], _ = colors[i].(string)
		}
	}

	if d, present := fields["duration"]; present {
		switch d := d.(type) {
		case nil:
			o.Duration = NoAnimation
		case float64:
			o.Duration = time.Duration(d * float64(time.Millisecond))
		}
	}

	switch text := fields["text"].(type) {
	case func(float64) string:
		o.Text = text
	case LabelFunc:
		o.Text = text
	case string:
		o.Text = StaticText(text)
	case float64:
		o.Text = StaticText(FormatValue(text))
	}
	return o
}
