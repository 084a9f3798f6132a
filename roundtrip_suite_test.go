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

package yaml_test

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"go.yamlcore.dev/yaml"
)

func TestRoundTripSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "round trip suite")
}

var _ = Describe("decode then encode", func() {
	DescribeTable("preserves the document byte-for-byte",
		func(src string) {
			var n yaml.Node
			Expect(yaml.Unmarshal([]byte(src), &n)).To(Succeed())
			out, err := yaml.Marshal(&n)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(out)).To(Equal(src))
		},
		Entry("flat mapping", "name: ada\nrole: engineer\n"),
		Entry("nested mapping", "outer:\n  inner: value\n"),
		Entry("block sequence", "- one\n- two\n- three\n"),
		Entry("flow sequence", "nums: [1, 2, 3]\n"),
		Entry("anchors and aliases", "base: &b 1\nother: *b\n"),
	)

	It("resolves merge keys with first-wins semantics", func() {
		src := "base: &b\n  x: \"1\"\n  y: \"2\"\nextended:\n  <<: *b\n  y: \"3\"\n"
		var doc map[string]map[string]string
		Expect(yaml.Unmarshal([]byte(src), &doc)).To(Succeed())
		Expect(doc["extended"]).To(Equal(map[string]string{"x": "1", "y": "3"}))
	})

	It("rejects a document containing an undefined alias", func() {
		var n yaml.Node
		err := yaml.Unmarshal([]byte("a: *missing\n"), &n)
		Expect(err).To(HaveOccurred())
	})

	It("loads every document from a multi-document stream", func() {
		var docs []map[string]int
		err := yaml.LoadAll(strings.NewReader("---\na: 1\n---\nb: 2\n"),
			func() interface{} { return &map[string]int{} },
			func(v interface{}) error {
				docs = append(docs, *v.(*map[string]int))
				return nil
			})
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(2))
	})
})
