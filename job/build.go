package job

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/typeline/binding"
	"github.com/ByLCY/typeline/dsl"
	"github.com/ByLCY/typeline/layout"
)

// BuildOptions 配置构建阶段所需的依赖与缺省值。
type BuildOptions struct {
	Measurer layout.Measurer
	Defaults Defaults
}

// Defaults 提供 DSL 中未显式声明时使用的缺省样式与约束（通常来自配置文件）。
type Defaults struct {
	Style       map[string]string
	Constraints layout.Constraints
	LineSpacing float64
}

// Result 保存全部 block 的布局结果，可直接序列化为调试 JSON。
type Result struct {
	Doc    string  `json:"doc"`
	Meta   Meta    `json:"meta"`
	Blocks []Block `json:"blocks"`
}

// Meta 保存文档元信息。
type Meta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Keywords []string `json:"keywords,omitempty"`
}

// Block 是一段文本的布局产物：生效的约束、透传的样式与分组后的行。
type Block struct {
	Style       string             `json:"style"`
	Text        string             `json:"text"`
	Attrs       layout.StyleAttrs  `json:"attrs"`
	Constraints layout.Constraints `json:"constraints"`
	LineSpacing float64            `json:"lineSpacing"`
	Groups      []layout.LineGroup `json:"groups"`
}

// Build 根据 DSL AST 依次布局每个 block，产出整体结果。
// data 会先通过 binding 插值到文本里，再交给折行引擎。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Measurer == nil {
		return nil, fmt.Errorf("job: 缺少测量后端 Measurer")
	}

	styles, err := collectStyles(doc)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Doc:  doc.Name,
		Meta: collectMeta(doc),
	}
	for _, section := range doc.Sections {
		if section.Block == nil {
			continue
		}
		block, err := buildBlock(section.Block, styles, data, opts)
		if err != nil {
			return nil, err
		}
		result.Blocks = append(result.Blocks, block)
	}
	return result, nil
}

func buildBlock(bs *dsl.BlockSection, styles map[string]map[string]string, data any, opts BuildOptions) (Block, error) {
	attrs := layout.StyleAttrs{}
	for k, v := range opts.Defaults.Style {
		attrs[k] = v
	}
	if props, ok := styles[bs.Style]; ok {
		for k, v := range props {
			attrs[k] = v
		}
	}

	constraints := opts.Defaults.Constraints
	spacing := opts.Defaults.LineSpacing
	for _, p := range bs.Params {
		switch p.Key {
		case "width":
			constraints.MaxWidth = layout.ParseLength(p.Value).ToMM()
		case "lines":
			n, err := strconv.Atoi(p.Value)
			if err != nil {
				return Block{}, fmt.Errorf("block %s 的 lines 参数非法: %q", bs.Style, p.Value)
			}
			constraints.MaxLines = n
		case "spacing":
			spacing = layout.ParseLength(p.Value).ToMM()
		default:
			return Block{}, fmt.Errorf("block %s 含未知参数 %q", bs.Style, p.Key)
		}
	}

	content := strings.Join(bs.Body.Texts(), "\n")
	if content == "" {
		return Block{}, fmt.Errorf("block %s 缺少文本内容", bs.Style)
	}
	if data != nil {
		content = binding.Interpolate(content, data)
	}

	groups, err := layout.LayoutText(content, constraints, attrs,
		layout.LineAttrs{LineSpacing: spacing}, opts.Measurer)
	if err != nil {
		return Block{}, fmt.Errorf("布局 block %s 失败: %w", bs.Style, err)
	}

	return Block{
		Style:       bs.Style,
		Text:        content,
		Attrs:       attrs,
		Constraints: constraints,
		LineSpacing: spacing,
		Groups:      groups,
	}, nil
}

// collectStyles 汇总 style 段落并解析 extends 继承（允许多级，拒绝循环）。
func collectStyles(doc *dsl.Document) (map[string]map[string]string, error) {
	raw := map[string]map[string]string{}
	extends := map[string]string{}
	for _, section := range doc.Sections {
		if section.Style == nil {
			continue
		}
		props := map[string]string{}
		for _, a := range section.Style.Body.Assignments() {
			if a.Key == "extends" {
				extends[section.Style.Name] = a.Value.Raw()
				continue
			}
			props[a.Key] = a.Value.Raw()
		}
		raw[section.Style.Name] = props
	}

	resolved := map[string]map[string]string{}
	visiting := map[string]bool{}

	var dfs func(name string) (map[string]string, error)
	dfs = func(name string) (map[string]string, error) {
		if props, ok := resolved[name]; ok {
			return props, nil
		}
		props, ok := raw[name]
		if !ok {
			return nil, fmt.Errorf("style %s 未定义", name)
		}
		if visiting[name] {
			return nil, fmt.Errorf("style 继承存在循环：%s", name)
		}
		visiting[name] = true

		merged := map[string]string{}
		if parent, ok := extends[name]; ok {
			parentProps, err := dfs(parent)
			if err != nil {
				return nil, err
			}
			for k, v := range parentProps {
				merged[k] = v
			}
		}
		for k, v := range props {
			merged[k] = v
		}
		resolved[name] = merged
		delete(visiting, name)
		return merged, nil
	}

	for name := range raw {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

func collectMeta(doc *dsl.Document) Meta {
	meta := Meta{}
	for _, section := range doc.Sections {
		if section.Meta == nil {
			continue
		}
		for _, a := range section.Meta.Body.Assignments() {
			switch strings.ToLower(a.Key) {
			case "title":
				meta.Title = a.Value.Raw()
			case "author":
				meta.Author = a.Value.Raw()
			case "subject":
				meta.Subject = a.Value.Raw()
			case "keywords":
				if v := a.Value.Raw(); v != "" {
					meta.Keywords = splitKeywords(v)
				}
			}
		}
	}
	return meta
}

func splitKeywords(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
