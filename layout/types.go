package layout

// 该文件定义折行引擎的输入输出数据结构，供折行计算、分组与调试 JSON 共用。
// 所有实体均为值类型，每次 LayoutText 调用都会重新构造，不跨调用持有状态。

// Extent 表示一段文本测量后的宽高（单位由测量后端决定，通常为 mm）。
type Extent struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Position 表示一行文本在所属分组内的坐标偏移。
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StyleAttrs 是透传给测量后端的样式键值对（如 font/size/style），
// 核心算法不解释其中任何键，只原样转发。
type StyleAttrs map[string]string

// Measurer 是外部测量能力的边界：对一批文本做一次批量测量，
// 返回与输入等长、同序的宽高序列。实现可以基于字体度量、
// 渲染宿主查询或等宽近似。
type Measurer interface {
	Measure(texts []string, attrs StyleAttrs) ([]Extent, error)
}

// Run 表示候选行：词序列的某个前缀拼接成的文本，以及该前缀之后剩余的词。
type Run struct {
	Text      string
	Remaining []string
}

// MeasuredLine 表示一行排好的物理行。Position 仅由分组阶段回填，
// 折行阶段产出时恒为 {0,0}。
type MeasuredLine struct {
	Text     string   `json:"text"`
	Measure  Extent   `json:"measure"`
	Position Position `json:"position"`
}

// HardLine 是用户显式换行产生的一段文本（折行前）。
type HardLine struct {
	OriginalText string
	Words        []string
}

// WrappedHardLine 是一条 HardLine 折行后的结果；Words 非空时 Wrapped 必非空。
type WrappedHardLine struct {
	OriginalText string
	Wrapped      []MeasuredLine
}

// LineGroup 是按最大行数切块后的一组行。
// 不变式：len(Lines) <= maxLines；Width 为组内行宽最大值；
// Height 为各行高之和加上相邻行间距（最后一行之后不计间距）。
type LineGroup struct {
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Lines  []MeasuredLine `json:"lines"`
}

// Constraints 约束单行最大宽度与每组最大行数。
type Constraints struct {
	MaxWidth float64 `json:"maxWidth"`
	MaxLines int     `json:"maxLines"`
}

// LineAttrs 描述组内相邻行之间的附加间距。
type LineAttrs struct {
	LineSpacing float64 `json:"lineSpacing"`
}
