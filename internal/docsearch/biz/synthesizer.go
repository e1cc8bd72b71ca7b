package biz

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Shreeshail-sp/docsearch/internal/model"
)

// NoAnswerMessage 没有检索结果时返回的答案。
const NoAnswerMessage = "No relevant information found in the uploaded documents."

const (
	maxAnswerSentences = 3
	maxAnswerChars     = 500
	fallbackChars      = 300
	minSentenceChars   = 10
	lowConfidenceScore = 0.3
)

var sentenceSplit = regexp.MustCompile(`[.!?\n]+`)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`what is the a an of in to for and or on at by how who where
		when why which are was were be been do does did have has had can could will would should
		may might about with from this that these those it its`) {
		stopWords[w] = struct{}{}
	}
}

// Synthesize 从检索结果中抽取与查询最相关的句子组成答案。
//
// 置信度等于首个结果的原始分数；首个结果分数低于 0.3 且结果多于一个时，
// 使用前两个分块拼接后的文本作为候选句子来源。
func Synthesize(query string, results []model.SearchResult) *model.AnswerResult {
	if len(results) == 0 {
		return &model.AnswerResult{
			Answer:     NoAnswerMessage,
			Sources:    []model.Source{},
			Confidence: 0.0,
		}
	}

	top := results[0]
	evidence := top.Text
	if top.Score < lowConfidenceScore && len(results) > 1 {
		evidence = top.Text + " " + results[1].Text
	}

	return &model.AnswerResult{
		Answer:     extractAnswer(query, evidence),
		Sources:    collectSources(results),
		Confidence: top.Score,
	}
}

// queryKeywords 小写分词后去除停用词。
//
// 按空白切分且不剥离标点，"criteria?" 原样保留为关键词，
// 只与同样带问号的句子文本匹配。这是有意保持的行为。
func queryKeywords(query string) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
	}
	return keywords
}

type scoredSentence struct {
	text  string
	score int
}

func extractAnswer(query, evidence string) string {
	keywords := queryKeywords(query)

	var sentences []scoredSentence
	for _, s := range sentenceSplit.Split(evidence, -1) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) <= minSentenceChars {
			continue
		}
		lower := strings.ToLower(s)
		score := 0
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				score++
			}
		}
		sentences = append(sentences, scoredSentence{text: s, score: score})
	}
	if len(sentences) == 0 {
		return truncateRunes(evidence, fallbackChars)
	}

	sort.SliceStable(sentences, func(i, j int) bool {
		return sentences[i].score > sentences[j].score
	})

	var (
		picked []string
		total  int
	)
	for _, s := range sentences {
		n := utf8.RuneCountInString(s.text)
		if total+n > maxAnswerChars {
			break
		}
		picked = append(picked, s.text)
		total += n
		if len(picked) == maxAnswerSentences {
			break
		}
	}
	if len(picked) == 0 {
		picked = []string{sentences[0].text}
	}
	return strings.Join(picked, ". ") + "."
}

// collectSources 按排名保留每个文件名的首次出现。
func collectSources(results []model.SearchResult) []model.Source {
	seen := make(map[string]struct{}, len(results))
	sources := make([]model.Source, 0, len(results))
	for _, r := range results {
		if _, ok := seen[r.Filename]; ok {
			continue
		}
		seen[r.Filename] = struct{}{}
		sources = append(sources, model.Source{Filename: r.Filename, Score: r.Score})
	}
	return sources
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
