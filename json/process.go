package json

import (
	"github.com/yaoapp/jsbind/process"
	"github.com/yaoapp/kun/exception"
)

func init() {
	process.RegisterGroup("json", map[string]process.Handler{
		"parse":    ProcessParse,
		"repair":   ProcessRepair,
		"validate": ProcessValidate,
	})
}

// ProcessParse json.Parse
// Args: data string, hint string (optional, a file name or a format)
func ProcessParse(p *process.Process) interface{} {
	p.RequireArgs(1)
	data := p.ArgString(0)

	hint := ""
	if p.NArgs() > 1 {
		hint = p.ArgString(1)
	}

	format := Format(hint)
	if format != FormatJSON && format != FormatJSONC && format != FormatYAML {
		format = DetectFormat(hint, data)
	}

	res, err := Parse(data, format)
	if err != nil {
		exception.New("json.parse error: %s", 500, err).Throw()
	}
	return res
}

// ProcessRepair json.Repair
// Args: data string
func ProcessRepair(p *process.Process) interface{} {
	p.RequireArgs(1)
	res, err := Repair(p.ArgString(0))
	if err != nil {
		exception.New("json.repair error: %s", 500, err).Throw()
	}
	return res
}

// ProcessValidate json.Validate
// Args: data interface{}, schema interface{}, returns true or throws the validation error
func ProcessValidate(p *process.Process) interface{} {
	p.RequireArgs(2)
	err := Validate(p.Args[0], p.Args[1])
	if err != nil {
		exception.New("%s", 400, err.Error()).Throw()
	}
	return true
}
