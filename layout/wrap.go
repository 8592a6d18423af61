package layout

// wrapHardLine 反复调用 fitLine，直到该硬行的词全部被消费。
// 每步至少消费一个词（见 fitLine 的兜底策略），循环必然终止；
// 产出各行按词数拼接后与原词序列完全一致，不重不漏。
func wrapHardLine(hl HardLine, maxWidth float64, m Measurer, attrs StyleAttrs) (WrappedHardLine, error) {
	out := WrappedHardLine{OriginalText: hl.OriginalText}
	runs := Runs(hl.Words)
	for len(runs) > 0 {
		line, rest, err := fitLine(runs, maxWidth, m, attrs)
		if err != nil {
			return WrappedHardLine{}, err
		}
		out.Wrapped = append(out.Wrapped, line)
		runs = rest
	}
	return out, nil
}
