package dsl

import (
	"strings"
	"testing"
)

const sampleDoc = `doc demo v1 {
  // 注释应被忽略
  meta {
    title: "Wrap Demo"
    author: "typeline"
  }
  style Body {
    font: "embed:go-regular"
    size: 12pt
    style: Regular
  }
  block Body width 60mm lines 4 spacing 2mm {
    "hello world"
    "second paragraph"
  }
}`

func TestParseDocument(t *testing.T) {
	doc, err := ParseString(sampleDoc)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if doc.Name != "demo" || doc.Version != "v1" {
		t.Fatalf("文档头不符: %s %s", doc.Name, doc.Version)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("期望 3 个段落，实际 %d", len(doc.Sections))
	}
	kinds := []string{}
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind())
	}
	if strings.Join(kinds, ",") != "meta,style,block" {
		t.Fatalf("段落类型不符: %v", kinds)
	}
}

func TestParseStyleSection(t *testing.T) {
	doc, err := ParseString(sampleDoc)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	style := doc.Sections[1].Style
	if style.Name != "Body" {
		t.Fatalf("样式名不符: %q", style.Name)
	}
	got := map[string]string{}
	for _, a := range style.Body.Assignments() {
		got[a.Key] = a.Value.Raw()
	}
	if got["font"] != "embed:go-regular" {
		t.Fatalf("font 属性不符: %q", got["font"])
	}
	if got["size"] != "12pt" {
		t.Fatalf("size 属性不符: %q", got["size"])
	}
	if got["style"] != "Regular" {
		t.Fatalf("style 属性不符: %q", got["style"])
	}
}

func TestParseBlockSection(t *testing.T) {
	doc, err := ParseString(sampleDoc)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	block := doc.Sections[2].Block
	if block.Style != "Body" {
		t.Fatalf("block 样式名不符: %q", block.Style)
	}
	params := map[string]string{}
	for _, p := range block.Params {
		params[p.Key] = p.Value
	}
	if params["width"] != "60mm" || params["lines"] != "4" || params["spacing"] != "2mm" {
		t.Fatalf("block 参数不符: %v", params)
	}
	texts := block.Body.Texts()
	if len(texts) != 2 || texts[0] != "hello world" || texts[1] != "second paragraph" {
		t.Fatalf("文本字面量不符: %v", texts)
	}
}

func TestParseStringEscapes(t *testing.T) {
	doc, err := ParseString("doc d v1 { block Body { \"line one\\nline two\" } }")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	texts := doc.Sections[0].Block.Body.Texts()
	if len(texts) != 1 || texts[0] != "line one\nline two" {
		t.Fatalf("转义处理不符: %v", texts)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := ParseString("doc { nope"); err == nil {
		t.Fatalf("残缺输入应解析失败")
	}
}
