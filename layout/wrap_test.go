package layout

import (
	"fmt"
	"strings"
	"testing"
)

// stubMeasurer 是测试用的确定性测量后端：
// 宽度 = 每个 rune 10（可用 widths 表覆盖特定文本），高度固定。
// calls 记录批量测量的调用次数，用于校验每个拟合步只测量一次。
type stubMeasurer struct {
	widths map[string]float64
	height float64
	calls  int
	fail   error
	short  bool // 返回比输入少一个结果，模拟长度不匹配
}

func (s *stubMeasurer) Measure(texts []string, attrs StyleAttrs) ([]Extent, error) {
	s.calls++
	if s.fail != nil {
		return nil, s.fail
	}
	out := make([]Extent, 0, len(texts))
	for _, t := range texts {
		w, ok := s.widths[t]
		if !ok {
			w = float64(len([]rune(t))) * 10
		}
		h := s.height
		if h == 0 {
			h = 10
		}
		out = append(out, Extent{Width: w, Height: h})
	}
	if s.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func TestSegmentDropsBlankLines(t *testing.T) {
	lines := Segment("hello world\n \n\nsecond line")
	if len(lines) != 2 {
		t.Fatalf("期望 2 条硬行，实际 %d", len(lines))
	}
	if lines[0].OriginalText != "hello world" {
		t.Fatalf("首行原文不符: %q", lines[0].OriginalText)
	}
	if got := len(lines[0].Words); got != 2 {
		t.Fatalf("首行分词数不符: got=%d want=2", got)
	}
	if lines[0].Words[0] != "hello" || lines[0].Words[1] != "world" {
		t.Fatalf("分词结果不符: %v", lines[0].Words)
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	for _, in := range []string{"", "\n", "   \n\t\n"} {
		if got := Segment(in); len(got) != 0 {
			t.Fatalf("空白输入 %q 应产生空序列，实际 %d 条", in, len(got))
		}
	}
}

// TestSegmentJoinRoundTrip 验证词以占位符重新拼接可精确还原原始行，
// 包括连续空格的场景。
func TestSegmentJoinRoundTrip(t *testing.T) {
	for _, in := range []string{"a b", "a  b", " a b ", "one two  three"} {
		hls := Segment(in)
		if len(hls) != 1 {
			t.Fatalf("输入 %q 期望 1 条硬行，实际 %d", in, len(hls))
		}
		joined := strings.Join(hls[0].Words, Placeholder)
		want := strings.ReplaceAll(in, " ", Placeholder)
		if joined != want {
			t.Fatalf("拼接不可逆: got=%q want=%q", joined, want)
		}
	}
}

// TestRunsProperties 验证 n 个词恰好产生 n 个 Run、词数严格递增、
// 末个 Run 的文本等于全部词的拼接、Remaining 为对应后缀。
func TestRunsProperties(t *testing.T) {
	words := []string{"a", "b", "c", "d"}
	runs := Runs(words)
	if len(runs) != len(words) {
		t.Fatalf("Run 数量不符: got=%d want=%d", len(runs), len(words))
	}
	for i, r := range runs {
		wantText := strings.Join(words[:i+1], Placeholder)
		if r.Text != wantText {
			t.Fatalf("run %d 文本不符: got=%q want=%q", i, r.Text, wantText)
		}
		if got, want := len(r.Remaining), len(words)-i-1; got != want {
			t.Fatalf("run %d Remaining 长度不符: got=%d want=%d", i, got, want)
		}
	}
	if runs[len(runs)-1].Text != strings.Join(words, Placeholder) {
		t.Fatalf("末个 run 应包含全部词")
	}
	if len(Runs(nil)) != 0 {
		t.Fatalf("空词序列应产生空 Run 序列")
	}
}

func TestFitLineGreedyPicksWidestFit(t *testing.T) {
	m := &stubMeasurer{}
	runs := Runs([]string{"aa", "bb", "cc"}) // 宽度 20/50/80
	line, rest, err := fitLine(runs, 60, m, nil)
	if err != nil {
		t.Fatalf("fitLine 错误: %v", err)
	}
	if line.Text != "aa"+Placeholder+"bb" {
		t.Fatalf("应选中放得下的最长候选: got=%q", line.Text)
	}
	if len(rest) != 1 || rest[0].Text != "cc" {
		t.Fatalf("剩余候选不符: %+v", rest)
	}
	if m.calls != 1 {
		t.Fatalf("每个拟合步应恰好批量测量一次，实际 %d 次", m.calls)
	}
	if line.Position.X != 0 || line.Position.Y != 0 {
		t.Fatalf("拟合阶段 Position 应为 {0,0}")
	}
}

// TestFitLineOverflowFallback 对应超宽单词场景：没有候选放得下时，
// 退回宽度最小的候选而不是报错，保证至少消费一个词。
func TestFitLineOverflowFallback(t *testing.T) {
	m := &stubMeasurer{}
	runs := Runs([]string{"abcdefgh", "x"}) // 最窄候选也有 80 宽
	line, rest, err := fitLine(runs, 60, m, nil)
	if err != nil {
		t.Fatalf("fitLine 错误: %v", err)
	}
	if line.Text != "abcdefgh" {
		t.Fatalf("兜底应选最窄候选: got=%q", line.Text)
	}
	if line.Measure.Width <= 60 {
		t.Fatalf("兜底行允许溢出 maxWidth")
	}
	if len(rest) != 1 {
		t.Fatalf("剩余词应重新生成候选: %+v", rest)
	}
}

// TestFitLineEqualWidthTieBreak 验证等宽候选取词数多者，结果确定。
func TestFitLineEqualWidthTieBreak(t *testing.T) {
	m := &stubMeasurer{widths: map[string]float64{
		"a":                      30,
		"a" + Placeholder + "b":  30,
		"a" + Placeholder + "b" + Placeholder + "c": 30,
	}}
	line, rest, err := fitLine(Runs([]string{"a", "b", "c"}), 40, m, nil)
	if err != nil {
		t.Fatalf("fitLine 错误: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("等宽平局应选词数最多的候选，实际剩余 %d", len(rest))
	}
	if line.Text != "a"+Placeholder+"b"+Placeholder+"c" {
		t.Fatalf("选中候选不符: %q", line.Text)
	}
}

func TestFitLineMeasureFailure(t *testing.T) {
	m := &stubMeasurer{fail: fmt.Errorf("host unavailable")}
	if _, _, err := fitLine(Runs([]string{"a"}), 60, m, nil); err == nil {
		t.Fatalf("测量失败应向上传播")
	}
	m2 := &stubMeasurer{short: true}
	if _, _, err := fitLine(Runs([]string{"a", "b"}), 60, m2, nil); err == nil {
		t.Fatalf("测量结果长度不匹配应报错")
	}
}

// TestWrapConservesWords 验证折行终止，且各行按占位符拆回的词
// 与原词序列完全一致（顺序、数量均不变）。
func TestWrapConservesWords(t *testing.T) {
	m := &stubMeasurer{}
	hl := Segment("one two three four five six")[0]
	wrapped, err := wrapHardLine(hl, 55, m, nil)
	if err != nil {
		t.Fatalf("wrapHardLine 错误: %v", err)
	}
	if len(wrapped.Wrapped) == 0 {
		t.Fatalf("非空硬行应至少产生一行")
	}
	var got []string
	for _, ln := range wrapped.Wrapped {
		if ln.Text == "" {
			t.Fatalf("不应产生空文本行")
		}
		got = append(got, strings.Split(ln.Text, Placeholder)...)
	}
	if strings.Join(got, " ") != hl.OriginalText {
		t.Fatalf("词不守恒: got=%v want=%q", got, hl.OriginalText)
	}
}

// TestWrapLeadingSpaceNoEmptyLine 对应行首/连续空格场景：
// 拆分产生的空词不得单独成行（空行宽 0 必然放得下，但会占用行高），
// 空词应并入相邻非空候选一起消费。
func TestWrapLeadingSpaceNoEmptyLine(t *testing.T) {
	m := &stubMeasurer{}
	hls := Segment(" verylongword")
	if len(hls) != 1 || len(hls[0].Words) != 2 || hls[0].Words[0] != "" {
		t.Fatalf("前置空格应拆出空词: %+v", hls)
	}
	wrapped, err := wrapHardLine(hls[0], 60, m, nil)
	if err != nil {
		t.Fatalf("wrapHardLine 错误: %v", err)
	}
	if len(wrapped.Wrapped) != 1 {
		t.Fatalf("期望 1 行，实际 %d", len(wrapped.Wrapped))
	}
	if wrapped.Wrapped[0].Text == "" {
		t.Fatalf("不应产生空文本行")
	}
	if got := strings.Split(wrapped.Wrapped[0].Text, Placeholder); len(got) != 2 || got[1] != "verylongword" {
		t.Fatalf("空词应随非空候选一并消费: %v", got)
	}

	// 连续空格在行中间：两行均非空，词守恒
	hl := Segment("alpha  beta")[0]
	wrapped, err = wrapHardLine(hl, 60, m, nil)
	if err != nil {
		t.Fatalf("wrapHardLine 错误: %v", err)
	}
	var words []string
	for _, ln := range wrapped.Wrapped {
		if ln.Text == "" {
			t.Fatalf("不应产生空文本行")
		}
		words = append(words, strings.Split(ln.Text, Placeholder)...)
	}
	if strings.Join(words, " ") != "alpha  beta" {
		t.Fatalf("词不守恒: %v", words)
	}
}

func TestGroupInvariants(t *testing.T) {
	mkLine := func(w, h float64) MeasuredLine {
		return MeasuredLine{Text: "x", Measure: Extent{Width: w, Height: h}}
	}
	lines := []MeasuredLine{
		mkLine(40, 10), mkLine(60, 12), mkLine(20, 10),
		mkLine(55, 11), mkLine(30, 10),
	}
	groups := Group(lines, 2, 3)
	if len(groups) != 3 {
		t.Fatalf("5 行按 2 分组应得 3 组，实际 %d", len(groups))
	}
	for gi, g := range groups {
		if len(g.Lines) > 2 {
			t.Fatalf("组 %d 超出 maxLines: %d", gi, len(g.Lines))
		}
		wantHeight := 0.0
		wantWidth := 0.0
		y := 0.0
		for i, ln := range g.Lines {
			if ln.Position.Y != y {
				t.Fatalf("组 %d 行 %d 纵向偏移不符: got=%g want=%g", gi, i, ln.Position.Y, y)
			}
			y += ln.Measure.Height + 3
			wantHeight += ln.Measure.Height
			if ln.Measure.Width > wantWidth {
				wantWidth = ln.Measure.Width
			}
		}
		wantHeight += float64(len(g.Lines)-1) * 3
		if diff := abs(g.Height - wantHeight); diff > 1e-9 {
			t.Fatalf("组 %d 高度不符: got=%g want=%g", gi, g.Height, wantHeight)
		}
		if g.Width != wantWidth {
			t.Fatalf("组 %d 宽度不符: got=%g want=%g", gi, g.Width, wantWidth)
		}
	}
	if got := groups[2].Lines; len(got) != 1 {
		t.Fatalf("末组应为 1 行，实际 %d", len(got))
	}
	if len(Group(nil, 2, 3)) != 0 {
		t.Fatalf("空行序列应产生空组序列")
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
