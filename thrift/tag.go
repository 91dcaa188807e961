package thrift

import (
	"strconv"
	"strings"
)

type fieldTag struct {
	id           int16
	required     bool
	defaultTrue  bool
	present      bool
}

// parseTag parses a struct tag of the form "id,required" or
// "id,optional" or "id,optional,default=true". A field with no thrift
// tag (present == false) is skipped entirely by the codec.
func parseTag(tag string) fieldTag {
	var ft fieldTag
	parts := strings.Split(tag, ",")
	if len(parts) == 0 || parts[0] == "" {
		return ft
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return ft
	}
	ft.id = int16(id)
	ft.present = true
	for _, p := range parts[1:] {
		switch {
		case p == "required":
			ft.required = true
		case p == "optional":
			ft.required = false
		case p == "default=true":
			ft.defaultTrue = true
		}
	}
	return ft
}
