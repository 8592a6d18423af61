package layout

import "strings"

// Runs 依次生成词序列的全部前缀候选行：第 i 个 Run 的文本为
// words[0..i] 以占位符拼接的结果，Remaining 为 words[i+1..]。
// n 个词恰好产生 n 个 Run；空词序列返回空（保证不产生空文本的 Run）。
func Runs(words []string) []Run {
	if len(words) == 0 {
		return nil
	}
	out := make([]Run, len(words))
	for i := range words {
		out[i] = Run{
			Text:      strings.Join(words[:i+1], Placeholder),
			Remaining: words[i+1:],
		}
	}
	return out
}
