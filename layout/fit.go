package layout

import (
	"fmt"
	"sort"
)

// measuredRun 仅在贪心选行阶段内部使用：候选行加上其测量结果与词数。
type measuredRun struct {
	run    Run
	extent Extent
	words  int
}

// fitLine 从候选行中贪心选出一行：
//  1. 对全部候选文本做一次批量测量（一次调用，摊薄测量开销）；
//  2. 按测量宽度降序排序。候选行的词数虽随序号递增，但更长的文本
//     并不保证更宽（连字、字距等），因此必须重新排序而非依赖生成序。
//     等宽时取词数多者优先，保证结果确定。
//  3. 取第一条文本非空且宽度不超过 maxWidth 的候选作为该行；
//  4. 若没有任何候选放得下（例如单个超宽词），退回宽度最小的非空候选。
//     这是溢出容忍策略而非错误：超宽的词整行溢出而不被强拆，
//     同时保证每步至少消费一个词，折行循环必然收敛。
//
// 返回选中的行与对剩余词重新生成的候选序列。调用方保证 runs 非空。
func fitLine(runs []Run, maxWidth float64, m Measurer, attrs StyleAttrs) (MeasuredLine, []Run, error) {
	texts := make([]string, len(runs))
	for i, r := range runs {
		texts[i] = r.Text
	}
	extents, err := m.Measure(texts, attrs)
	if err != nil {
		return MeasuredLine{}, nil, fmt.Errorf("测量候选行失败: %w", err)
	}
	if len(extents) != len(runs) {
		return MeasuredLine{}, nil, fmt.Errorf("测量结果数量不匹配: got=%d want=%d", len(extents), len(runs))
	}

	measured := make([]measuredRun, len(runs))
	for i, r := range runs {
		measured[i] = measuredRun{run: r, extent: extents[i], words: i + 1}
	}
	sort.SliceStable(measured, func(i, j int) bool {
		if measured[i].extent.Width != measured[j].extent.Width {
			return measured[i].extent.Width > measured[j].extent.Width
		}
		return measured[i].words > measured[j].words
	})

	// 行首空词（连续空格拆分产物）会生成空文本候选：空行不可被选中，
	// 否则输出幽灵行并占用行高。空词仍会随非空候选一并消费。
	chosen := measuredRun{}
	found := false
	for i := len(measured) - 1; i >= 0; i-- { // 兜底：宽度最小的非空候选
		if measured[i].run.Text != "" {
			chosen = measured[i]
			found = true
			break
		}
	}
	if !found {
		return MeasuredLine{}, nil, fmt.Errorf("候选行全部为空文本")
	}
	for _, mr := range measured {
		if mr.run.Text != "" && mr.extent.Width <= maxWidth {
			chosen = mr
			break
		}
	}

	line := MeasuredLine{
		Text:     chosen.run.Text,
		Measure:  chosen.extent,
		Position: Position{},
	}
	return line, Runs(chosen.run.Remaining), nil
}
