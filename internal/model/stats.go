package model

import (
	"fmt"
	"sort"
)

const (
	// TotalName 是汇总伪语言的名称。
	TotalName = "Total"
	// BinaryName 是无法按文本解码的文件所在的桶。
	BinaryName = "Binary"
)

// Stats 表示某个语言的累计统计值。
//
// 注意：
// - Categories 为 nil 表示该语言不做结构化分析（展示为 "-"），与 0 不同
// - BlankLines 永远不大于 TotalLines
type Stats struct {
	Name       string             `json:"name"`
	Files      int64              `json:"files"`
	TotalLines int64              `json:"total_lines"`
	BlankLines int64              `json:"blank_lines"`
	Categories map[Category]int64 `json:"categories,omitempty"`
}

// NewStats 创建一个空的统计对象。
func NewStats(name string) *Stats {
	return &Stats{Name: name}
}

// Count 返回某个分类的计数，未声明的分类返回 0。
func (s *Stats) Count(category Category) int64 {
	return s.Categories[category]
}

// Tracks 报告该统计是否声明了某个分类。
func (s *Stats) Tracks(category Category) bool {
	_, ok := s.Categories[category]
	return ok
}

// AddCategory 累加一个分类计数，必要时初始化 map。
func (s *Stats) AddCategory(category Category, n int64) {
	if s.Categories == nil {
		s.Categories = make(map[Category]int64)
	}
	s.Categories[category] += n
}

// Add 将另一个同名统计结果叠加到当前对象。
// 名称不一致属于编程错误，直接 panic，避免把不同语言静默合并。
func (s *Stats) Add(other *Stats) {
	if s.Name != other.Name {
		panic(fmt.Sprintf("model: merge of mismatched stats %q and %q", s.Name, other.Name))
	}
	s.Files += other.Files
	s.TotalLines += other.TotalLines
	s.BlankLines += other.BlankLines
	for category, n := range other.Categories {
		s.AddCategory(category, n)
	}
}

// Clone 返回深拷贝。
func (s *Stats) Clone() *Stats {
	clone := *s
	if s.Categories != nil {
		clone.Categories = make(map[Category]int64, len(s.Categories))
		for category, n := range s.Categories {
			clone.Categories[category] = n
		}
	}
	return &clone
}

// Merge 返回 a 与 b 的合并结果，不修改入参。
// 该运算满足交换律与结合律，是并发分片聚合结果与顺序无关的前提。
func Merge(a, b *Stats) *Stats {
	merged := a.Clone()
	merged.Add(b)
	return merged
}

// Aggregate 是语言名称到统计值的映射。
// 每个 worker 独占一个 Aggregate，只在汇合点做合并。
type Aggregate map[string]*Stats

// Add 以“不存在则插入，存在则合并”的方式叠加单个统计。
func (a Aggregate) Add(stats *Stats) {
	if current, ok := a[stats.Name]; ok {
		current.Add(stats)
		return
	}
	a[stats.Name] = stats.Clone()
}

// Merge 把另一个 Aggregate 合并进来。
func (a Aggregate) Merge(other Aggregate) {
	for name, stats := range other {
		if stats.Name != name {
			panic(fmt.Sprintf("model: aggregate key %q holds stats %q", name, stats.Name))
		}
		a.Add(stats)
	}
}

// Sorted 按语言名称排序返回全部统计。
func (a Aggregate) Sorted() []*Stats {
	result := make([]*Stats, 0, len(a))
	for _, stats := range a {
		result = append(result, stats)
	}
	sort.Slice(result, func(i int, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Total 计算所有语言的汇总伪语言。
// 行数与文件数全部累加，分类只统计 SummaryCategories（预置为 0）。
func Total(a Aggregate) *Stats {
	total := NewStats(TotalName)
	for _, category := range SummaryCategories {
		total.AddCategory(category, 0)
	}
	for _, stats := range a {
		part := &Stats{
			Name:       TotalName,
			Files:      stats.Files,
			TotalLines: stats.TotalLines,
			BlankLines: stats.BlankLines,
		}
		for _, category := range SummaryCategories {
			part.AddCategory(category, stats.Count(category))
		}
		total.Add(part)
	}
	return total
}
