package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetAngle
	WidgetBool
	WidgetSkip
)

// Field is one exported component field with its rendering hints.
type Field struct {
	Name    string
	Value   any
	Widget  Widget
	Options map[string]string
}

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"angle": WidgetAngle,
	"bool":  WidgetBool,
	"skip":  WidgetSkip,
}

// ParseTag splits an inspect tag into its widget and key:value options.
//
//	`inspect:"bar,max:1.5"`
//	`inspect:"label,fmt:%.1f"`
//	`inspect:"skip"`
//
// Unknown widget names fall back to WidgetAuto.
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)
	name, rest, _ := strings.Cut(tag, ",")
	widget := widgetNames[strings.TrimSpace(name)]

	for rest != "" {
		var opt string
		opt, rest, _ = strings.Cut(rest, ",")
		if k, v, ok := strings.Cut(strings.TrimSpace(opt), ":"); ok {
			options[k] = v
		}
	}
	return widget, options
}

// ExtractFields lists the exported fields of a struct, or pointer to one, in
// declaration order. Fields tagged skip are left out.
func ExtractFields(component any) []Field {
	v := reflect.Indirect(reflect.ValueOf(component))
	if v.Kind() != reflect.Struct {
		return nil
	}

	var fields []Field
	for _, sf := range reflect.VisibleFields(v.Type()) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		widget, options := ParseTag(sf.Tag.Get("inspect"))
		fv := v.FieldByIndex(sf.Index)
		switch {
		case widget == WidgetSkip:
			continue
		case widget == WidgetAuto && fv.Kind() == reflect.Bool:
			widget = WidgetBool
		case widget == WidgetAuto:
			widget = WidgetLabel
		}
		fields = append(fields, Field{Name: sf.Name, Value: fv.Interface(), Widget: widget, Options: options})
	}
	return fields
}

// FormatValue formats a field value. Named integer types such as enums print
// through their String method.
func FormatValue(value any, fmtStr string) string {
	if fmtStr != "" {
		return fmt.Sprintf(fmtStr, value)
	}
	if t := reflect.TypeOf(value); t != nil && (t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64) {
		return fmt.Sprintf("%.2f", value)
	}
	return fmt.Sprint(value)
}

// GetMax returns the max option, defaulting to 1.
func GetMax(options map[string]string) float64 {
	if s, ok := options["max"]; ok {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
			return v
		}
	}
	return 1
}

// GetFloatValue converts any numeric kind to float64.
func GetFloatValue(value any) (float64, bool) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), true
	default:
		return 0, false
	}
}
