package layout

import "fmt"

// LayoutText 是折行引擎的顶层入口：
// 按硬换行分段 → 逐段贪心折行 → 平铺所有行 → 按最大行数分组。
// 约束非法时立刻报错，不做任何测量；空白输入不是错误，返回空组序列。
// 测量失败原样向上传播，不产生部分结果。
func LayoutText(text string, c Constraints, attrs StyleAttrs, la LineAttrs, m Measurer) ([]LineGroup, error) {
	if m == nil {
		return nil, fmt.Errorf("layout: 缺少测量后端 Measurer")
	}
	if c.MaxWidth <= 0 {
		return nil, fmt.Errorf("layout: maxWidth 必须大于 0，实际 %g", c.MaxWidth)
	}
	if c.MaxLines < 1 {
		return nil, fmt.Errorf("layout: maxLines 必须不小于 1，实际 %d", c.MaxLines)
	}
	if la.LineSpacing < 0 {
		return nil, fmt.Errorf("layout: lineSpacing 不能为负，实际 %g", la.LineSpacing)
	}

	var lines []MeasuredLine
	for _, hl := range Segment(text) {
		wrapped, err := wrapHardLine(hl, c.MaxWidth, m, attrs)
		if err != nil {
			return nil, err
		}
		lines = append(lines, wrapped.Wrapped...)
	}
	return Group(lines, c.MaxLines, la.LineSpacing), nil
}

// MeasureText 直接透传到测量后端，供只需要原始测量的调用方使用。
// 结果长度与输入不一致时视为测量失败。
func MeasureText(texts []string, attrs StyleAttrs, m Measurer) ([]Extent, error) {
	if m == nil {
		return nil, fmt.Errorf("layout: 缺少测量后端 Measurer")
	}
	extents, err := m.Measure(texts, attrs)
	if err != nil {
		return nil, err
	}
	if len(extents) != len(texts) {
		return nil, fmt.Errorf("测量结果数量不匹配: got=%d want=%d", len(extents), len(texts))
	}
	return extents, nil
}
