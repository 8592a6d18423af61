package layout

import "strings"

// Placeholder 是分词用的占位字符（不换行空格）。
// 普通空格在部分测量宿主中会被折叠，用占位符替换后再分词，
// 使得词序列以占位符重新拼接即可精确还原原始行。
const Placeholder = " "

// Segment 将原始文本按硬换行拆成 HardLine 序列。
// 纯空白行不产生 HardLine（空行不保留纵向空间是刻意策略）；
// 没有非空行时返回空序列。
func Segment(text string) []HardLine {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	out := make([]HardLine, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		padded := strings.ReplaceAll(line, " ", Placeholder)
		out = append(out, HardLine{
			OriginalText: line,
			Words:        strings.Split(padded, Placeholder),
		})
	}
	return out
}
