package importer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"qmllint/internal/scope"
)

// TypeFileSuffix marks type-description files.
const TypeFileSuffix = ".qmltypes.toml"

// typeFile is the decoded form of a *.qmltypes.toml file.
type typeFile struct {
	Components []componentDesc `toml:"component" msgpack:"components"`
}

type componentDesc struct {
	Name      string   `toml:"name" msgpack:"name"`
	Prototype string   `toml:"prototype" msgpack:"prototype"`
	Exports   []string `toml:"exports" msgpack:"exports"`

	Properties []propertyDesc `toml:"property" msgpack:"properties"`
	Signals    []methodDesc   `toml:"signal" msgpack:"signals"`
	Methods    []methodDesc   `toml:"method" msgpack:"methods"`
	Enums      []enumDesc     `toml:"enum" msgpack:"enums"`
}

type propertyDesc struct {
	Name     string `toml:"name" msgpack:"name"`
	Type     string `toml:"type" msgpack:"type"`
	List     bool   `toml:"list" msgpack:"list"`
	Readonly bool   `toml:"readonly" msgpack:"readonly"`
	Pointer  bool   `toml:"pointer" msgpack:"pointer"`
}

type methodDesc struct {
	Name       string          `toml:"name" msgpack:"name"`
	ReturnType string          `toml:"return" msgpack:"return"`
	Parameters []parameterDesc `toml:"parameter" msgpack:"parameters"`
}

type parameterDesc struct {
	Name string `toml:"name" msgpack:"name"`
	Type string `toml:"type" msgpack:"type"`
}

type enumDesc struct {
	Name   string   `toml:"name" msgpack:"name"`
	Values []string `toml:"values" msgpack:"values"`
}

func decodeTypeFile(path string, data []byte) (*typeFile, error) {
	var tf typeFile
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&tf)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	for i, c := range tf.Components {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%s: component #%d has no name", path, i+1)
		}
	}
	return &tf, nil
}

// scopes converts the description into type scopes keyed by internal name
// and by every export.
func (tf *typeFile) scopes() Types {
	types := make(Types, len(tf.Components)*2)
	for _, c := range tf.Components {
		s := scope.NewType(c.Name, c.Prototype)
		for _, p := range c.Properties {
			s.InsertProperty(scope.Property{
				Name:       p.Name,
				TypeName:   p.Type,
				IsList:     p.List,
				IsWritable: !p.Readonly,
				IsPointer:  p.Pointer,
			})
		}
		for _, m := range c.Signals {
			s.AddMethod(m.method(scope.MethodSignal))
		}
		for _, m := range c.Methods {
			s.AddMethod(m.method(scope.MethodPlain))
		}
		for _, e := range c.Enums {
			s.AddEnum(scope.Enum{Name: e.Name, Keys: e.Values})
		}
		types[c.Name] = s
		for _, exp := range c.Exports {
			types[exp] = s
		}
	}
	return types
}

func (m methodDesc) method(kind scope.MethodKind) scope.Method {
	params := make([]scope.Param, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		params = append(params, scope.Param{Name: p.Name, Type: p.Type})
	}
	ret := m.ReturnType
	if ret == "" {
		ret = "void"
	}
	return scope.Method{Name: m.Name, Kind: kind, Params: params, ReturnType: ret}
}
