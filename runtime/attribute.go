package runtime

import (
	"fmt"
	"strings"
)

// Writable check if the property is writable
func (attr Attribute) Writable() bool {
	return attr&ReadOnly == 0
}

// Enumerable check if the property is enumerable
func (attr Attribute) Enumerable() bool {
	return attr&DontEnum == 0
}

// Configurable check if the property can be deleted or redefined
func (attr Attribute) Configurable() bool {
	return attr&DontDelete == 0
}

func (attr Attribute) String() string {
	if attr == None {
		return "none"
	}
	names := []string{}
	if !attr.Writable() {
		names = append(names, "readonly")
	}
	if !attr.Enumerable() {
		names = append(names, "dontenum")
	}
	if !attr.Configurable() {
		names = append(names, "dontdelete")
	}
	return strings.Join(names, "|")
}

// ParseAttribute parse the attribute names e.g. ["readonly", "dontdelete"]
func ParseAttribute(names []string) (Attribute, error) {
	attr := None
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "", "none":
		case "readonly":
			attr |= ReadOnly
		case "dontenum":
			attr |= DontEnum
		case "dontdelete":
			attr |= DontDelete
		default:
			return None, fmt.Errorf("unknown property attribute %s", name)
		}
	}
	return attr, nil
}
