// Package orders 把聊天里的自然语言出兵指令解析成有序的兵种数量列表。
package orders

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"PixelBattle/internal/battle/catalog"
)

// Line 是一行订单：某兵种及其数量。
type Line struct {
	Kind  catalog.UnitKind
	Count int
}

// Orders 按首次出现的顺序排列，同一兵种只占一行。
type Orders []Line

// MaxCount 是单行订单数量上限，解析和累加都在这里截断。
const MaxCount = 1_000_000_000

var (
	orderPattern = regexp.MustCompile(`(?:(\d+|[零一二两三四五六七八九十百]+)\s*个?)?\s*(剑士|剑|弓箭手|弓手|弓|狂战士|狂战|狂|长枪兵|枪兵|枪|盾牌手|盾手|盾)`)
	separators   = strings.NewReplacer("，", " ", ",", " ", ";", " ", "；", " ")
)

var aliases = map[string]catalog.UnitKind{
	"剑士":  catalog.Swordsman,
	"剑":   catalog.Swordsman,
	"弓箭手": catalog.Archer,
	"弓手":  catalog.Archer,
	"弓":   catalog.Archer,
	"狂战士": catalog.Berserker,
	"狂战":  catalog.Berserker,
	"狂":   catalog.Berserker,
	"长枪兵": catalog.Spearman,
	"枪兵":  catalog.Spearman,
	"枪":   catalog.Spearman,
	"盾牌手": catalog.Shield,
	"盾手":  catalog.Shield,
	"盾":   catalog.Shield,
}

// Parse 解析任意文本，识别不了的部分直接忽略，从不报错。
// 数量缺省或为 0 时按 1 计；同一兵种多次出现累加。
func Parse(text string) Orders {
	var out Orders
	combo := separators.Replace(text)
	for _, m := range orderPattern.FindAllStringSubmatch(combo, -1) {
		kind, ok := aliases[m[2]]
		if !ok {
			continue
		}
		n := 1
		if m[1] != "" {
			parsed, ok := parseNumber(m[1])
			if !ok {
				continue
			}
			if parsed > 0 {
				n = parsed
			}
		}
		out = out.add(kind, n)
	}
	return out
}

var digits = map[rune]int{
	'零': 0, '一': 1, '二': 2, '两': 2, '三': 3,
	'四': 4, '五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// parseNumber 支持阿拉伯数字和 十/百 组合的中文数字：十=10，二十三=23，三百零五=305。
func parseNumber(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if s[0] >= '0' && s[0] <= '9' {
		return parseDigits(s)
	}

	rest := s
	total := 0
	if i := strings.LastIndex(rest, "百"); i >= 0 {
		total += multiplier(rest[:i]) * 100
		rest = rest[i+len("百"):]
	}
	if i := strings.LastIndex(rest, "十"); i >= 0 {
		total += multiplier(rest[:i]) * 10
		rest = rest[i+len("十"):]
	}
	rest = strings.TrimLeft(rest, "零")
	if rest != "" {
		if d, ok := digits[[]rune(rest)[0]]; ok && len([]rune(rest)) == 1 {
			total += d
		}
	}
	return total, true
}

// parseDigits 解析阿拉伯数字，超过 MaxCount 时截断为 MaxCount，不会溢出。
func parseDigits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		if n < MaxCount {
			n = n*10 + int(c-'0')
		}
	}
	return min(n, MaxCount), true
}

// multiplier 取 百/十 前面的系数，缺省或无法识别时为 1。
func multiplier(prefix string) int {
	r := []rune(prefix)
	if len(r) != 1 {
		return 1
	}
	if d, ok := digits[r[0]]; ok && d > 0 {
		return d
	}
	return 1
}

// FromMap 把结构化订单转成按兵种表顺序排列的 Orders，未知兵种和非正数量被丢弃。
func FromMap(m map[string]int) Orders {
	var out Orders
	for _, kind := range catalog.Kinds() {
		if n := m[string(kind)]; n > 0 {
			out = append(out, Line{Kind: kind, Count: min(n, MaxCount)})
		}
	}
	return out
}

func (o Orders) add(kind catalog.UnitKind, n int) Orders {
	for i := range o {
		if o[i].Kind == kind {
			o[i].Count = addCount(o[i].Count, n)
			return o
		}
	}
	return append(o, Line{Kind: kind, Count: min(n, MaxCount)})
}

// addCount 饱和加法：结果不超过 MaxCount。
func addCount(a, b int) int {
	if b >= MaxCount-a {
		return MaxCount
	}
	return a + b
}

func (o Orders) Empty() bool {
	return len(o) == 0
}

func (o Orders) Map() map[catalog.UnitKind]int {
	out := make(map[catalog.UnitKind]int, len(o))
	for _, l := range o {
		out[l.Kind] += l.Count
	}
	return out
}

// Cost 按兵种表单价计算总价，未知兵种不计。
func (o Orders) Cost() float64 {
	total := 0.0
	for _, l := range o {
		if s, ok := catalog.Lookup(l.Kind); ok {
			total += s.Cost * float64(l.Count)
		}
	}
	return total
}

// MarshalJSON 输出为 JSON 对象，键顺序与行顺序一致。
func (o Orders) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(l.Kind))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(l.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 按对象键出现的顺序还原行，未知兵种和非正数量被丢弃。
func (o *Orders) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("orders: expect object, got %v", tok)
	}
	var out Orders
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var n int
		if err := dec.Decode(&n); err != nil {
			return err
		}
		if kind, ok := catalog.ParseKind(key); ok && n > 0 {
			out = out.add(kind, n)
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}
