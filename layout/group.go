package layout

// Group 将全部物理行按 maxLines 切成连续的组（最后一组可以不满），
// 并逐组自上而下回填每行的纵向偏移：y 从 0 开始，每行之后前进
// 行高加 lineSpacing。组高为累计 y 去掉最后一次多加的间距，
// 组宽为组内行宽的最大值。调用方保证 maxLines >= 1；
// 空行序列返回空组序列。
func Group(lines []MeasuredLine, maxLines int, lineSpacing float64) []LineGroup {
	if len(lines) == 0 || maxLines < 1 {
		return nil
	}
	groups := make([]LineGroup, 0, (len(lines)+maxLines-1)/maxLines)
	for start := 0; start < len(lines); start += maxLines {
		end := start + maxLines
		if end > len(lines) {
			end = len(lines)
		}
		chunk := make([]MeasuredLine, end-start)
		copy(chunk, lines[start:end])

		y := 0.0
		width := 0.0
		for i := range chunk {
			chunk[i].Position = Position{X: 0, Y: y}
			y += chunk[i].Measure.Height + lineSpacing
			if chunk[i].Measure.Width > width {
				width = chunk[i].Measure.Width
			}
		}
		groups = append(groups, LineGroup{
			Width:  width,
			Height: y - lineSpacing,
			Lines:  chunk,
		})
	}
	return groups
}
