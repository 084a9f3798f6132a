//
// Copyright (c) 2011-2019 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package yaml

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

type fieldInfo struct {
	Name   string
	Num    int
	Inline []int

	OmitEmpty bool
	Flow      bool
}

type structInfo struct {
	FieldsMap  map[string]*fieldInfo
	FieldsList []*fieldInfo

	// InlineMap is the index of an inline map field, or -1.
	InlineMap int
}

var structMap sync.Map // reflect.Type -> *structInfo

func getStructInfo(st reflect.Type) (*structInfo, error) {
	if v, ok := structMap.Load(st); ok {
		return v.(*structInfo), nil
	}

	n := st.NumField()
	fieldsMap := make(map[string]*fieldInfo)
	var fieldsList []*fieldInfo
	inlineMap := -1

	for i := 0; i < n; i++ {
		field := st.Field(i)
		if field.PkgPath != "" && !field.Anonymous {
			continue
		}

		tag := field.Tag.Get("yaml")
		if tag == "-" {
			continue
		}

		var inline bool
		fieldName := field.Name
		var omitempty, flow bool
		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				fieldName = parts[0]
			}
			for _, opt := range parts[1:] {
				switch opt {
				case "omitempty":
					omitempty = true
				case "flow":
					flow = true
				case "inline":
					inline = true
				}
			}
		}

		if inline {
			switch field.Type.Kind() {
			case reflect.Map:
				if inlineMap >= 0 {
					return nil, fmt.Errorf("yaml: multiple ,inline maps in struct %s", st)
				}
				if field.Type.Key() != reflect.TypeOf("") {
					return nil, fmt.Errorf("yaml: ,inline map must have string keys in struct %s", st)
				}
				inlineMap = i
				continue
			case reflect.Struct, reflect.Ptr:
				ft := field.Type
				for ft.Kind() == reflect.Ptr {
					ft = ft.Elem()
				}
				sinfo, err := getStructInfo(ft)
				if err != nil {
					return nil, err
				}
				for _, finfo := range sinfo.FieldsList {
					if _, found := fieldsMap[finfo.Name]; found {
						return nil, fmt.Errorf("yaml: duplicated key %q in struct %s", finfo.Name, st)
					}
					copyField := *finfo
					copyField.Inline = append([]int{i}, finfo.Inline...)
					fieldsMap[copyField.Name] = &copyField
					fieldsList = append(fieldsList, &copyField)
				}
				continue
			default:
				return nil, fmt.Errorf("yaml: inline field of unsupported type in struct %s", st)
			}
		}

		if !field.Anonymous || field.Type.Kind() != reflect.Struct {
			if tag == "" {
				fieldName = strings.ToLower(fieldName)
			}
		}

		info := &fieldInfo{Name: fieldName, Num: i, OmitEmpty: omitempty, Flow: flow}
		if _, found := fieldsMap[fieldName]; found {
			return nil, fmt.Errorf("yaml: duplicated key %q in struct %s", fieldName, st)
		}
		fieldsMap[fieldName] = info
		fieldsList = append(fieldsList, info)
	}

	sinfo := &structInfo{FieldsMap: fieldsMap, FieldsList: fieldsList, InlineMap: inlineMap}
	actual, _ := structMap.LoadOrStore(st, sinfo)
	return actual.(*structInfo), nil
}

func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.Len() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Struct:
		vt := v.Type()
		for i := v.NumField() - 1; i >= 0; i-- {
			if vt.Field(i).PkgPath != "" {
				continue
			}
			if !isZero(v.Field(i)) {
				return false
			}
		}
		return true
	}
	return false
}
